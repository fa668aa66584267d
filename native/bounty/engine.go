package bounty

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"stallion/core/events"
	"stallion/core/types"
	nativecommon "stallion/native/common"
	"stallion/native/fees"
)

type engineState interface {
	BountyPut(*Bounty) error
	BountyGet(id uint32) (*Bounty, bool, error)
	BountyDelete(id uint32) error
	NextBountyID() (uint32, error)
}

// Config fixes the product rules applied to new bounties.
type Config struct {
	FeePercent uint32
	FeeTiming  fees.Timing
	// RequireJudgingDeadline forces every bounty to declare a judging window
	// after its submission deadline.
	RequireJudgingDeadline bool
}

// DefaultConfig returns the platform defaults.
func DefaultConfig() Config {
	return Config{
		FeePercent:             fees.DefaultBountyPercent,
		FeeTiming:              fees.TimingSettlement,
		RequireJudgingDeadline: true,
	}
}

// Engine implements the bounty lifecycle. Funds are held by the vault
// account and moved through the token service; every amount handed to the
// token service is in base units.
type Engine struct {
	state      engineState
	tokens     nativecommon.Tokens
	auth       nativecommon.Authorizer
	pauses     nativecommon.PauseView
	emitter    events.Emitter
	vault      types.Address
	feeAccount types.Address
	cfg        Config
	nowFn      func() int64
}

// NewEngine creates a bounty engine with a no-op emitter and the default
// configuration.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		cfg:     DefaultConfig(),
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetTokens configures the token service.
func (e *Engine) SetTokens(tokens nativecommon.Tokens) { e.tokens = tokens }

// SetAuthorizer configures the authorization primitive.
func (e *Engine) SetAuthorizer(auth nativecommon.Authorizer) { e.auth = auth }

// SetPauses wires the module pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetVault configures the custody account holding escrowed rewards.
func (e *Engine) SetVault(addr types.Address) { e.vault = addr }

// SetFeeAccount configures the account receiving platform fees.
func (e *Engine) SetFeeAccount(addr types.Address) { e.feeAccount = addr }

// SetConfig replaces the product rules applied to new bounties.
func (e *Engine) SetConfig(cfg Config) { e.cfg = cfg }

// SetNowFunc overrides the time source used by the engine. Each operation
// reads it exactly once.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil resets
// the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.tokens == nil {
		return errNilTokens
	}
	if e.auth == nil {
		return errNilAuth
	}
	return nil
}

func (e *Engine) authorize(caller types.Address) error {
	if caller.IsZero() {
		return fmt.Errorf("%w: caller", ErrInvalidAddress)
	}
	return e.auth.RequireAuthorized(caller)
}

func (e *Engine) loadBounty(id uint32) (*Bounty, error) {
	b, ok, err := e.state.BountyGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBountyNotFound, id)
	}
	return b, nil
}

func (e *Engine) loadOwned(caller types.Address, id uint32) (*Bounty, error) {
	if err := e.authorize(caller); err != nil {
		return nil, err
	}
	b, err := e.loadBounty(id)
	if err != nil {
		return nil, err
	}
	if b.Owner != caller {
		return nil, ErrNotOwner
	}
	return b, nil
}

// baseReward converts the display-unit reward into the token's base units.
func (e *Engine) baseReward(b *Bounty) (*big.Int, error) {
	decimals, err := e.tokens.Decimals(b.Token)
	if err != nil {
		return nil, err
	}
	return fees.ToBaseUnits(b.Reward, decimals)
}

func (e *Engine) payFee(token string, fee *big.Int) error {
	if fee == nil || fee.Sign() == 0 {
		return nil
	}
	if e.feeAccount.IsZero() {
		return ErrFeeAccountUnset
	}
	return e.tokens.Transfer(token, e.vault, e.feeAccount, fee)
}

// Create validates the bounty definition, allocates an identifier and
// escrows the reward from the owner into the vault. When fees are collected
// at creation the fee is escrowed on top of the reward and forwarded to the
// fee account immediately.
func (e *Engine) Create(params CreateParams) (*Bounty, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleBounty); err != nil {
		return nil, err
	}
	if err := e.authorize(params.Owner); err != nil {
		return nil, err
	}
	token := types.NormalizeToken(params.Token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	if params.Reward == nil || params.Reward.Sign() <= 0 {
		return nil, ErrInvalidReward
	}
	dist, err := NewDistribution(params.Distribution)
	if err != nil {
		return nil, err
	}
	now := e.now()
	if params.SubmissionDeadline <= now {
		return nil, ErrInvalidDeadline
	}
	if params.JudgingDeadline < 0 {
		return nil, ErrInvalidJudgingDeadline
	}
	if params.JudgingDeadline == 0 && e.cfg.RequireJudgingDeadline {
		return nil, fmt.Errorf("%w: judging deadline required", ErrInvalidJudgingDeadline)
	}
	if params.JudgingDeadline != 0 && params.JudgingDeadline <= params.SubmissionDeadline {
		return nil, ErrInvalidJudgingDeadline
	}
	timing := e.cfg.FeeTiming.Normalize()

	b := &Bounty{
		Owner:              params.Owner,
		Token:              token,
		Reward:             new(big.Int).Set(params.Reward),
		Distribution:       dist,
		SubmissionDeadline: params.SubmissionDeadline,
		JudgingDeadline:    params.JudgingDeadline,
		Title:              params.Title,
		Status:             StatusActive,
		FeePercent:         e.cfg.FeePercent,
		FeeTiming:          timing,
		CreatedAt:          now,
	}
	base, err := e.baseReward(b)
	if err != nil {
		return nil, err
	}
	escrow := new(big.Int).Set(base)
	fee := big.NewInt(0)
	if timing == fees.TimingCreation {
		fee = fees.Compute(base, b.FeePercent)
		escrow.Add(escrow, fee)
	}

	id, err := e.state.NextBountyID()
	if err != nil {
		return nil, err
	}
	b.ID = id
	if err := e.tokens.Transfer(token, b.Owner, e.vault, escrow); err != nil {
		return nil, err
	}
	if err := e.payFee(token, fee); err != nil {
		return nil, err
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	e.emit(events.BountyCreated{ID: b.ID, Owner: b.Owner, Token: b.Token, Reward: b.Reward})
	return b.Clone(), nil
}

// Update patches an Active bounty and returns the names of the fields that
// changed. Reward and token are fixed at creation.
func (e *Engine) Update(caller types.Address, id uint32, params UpdateParams) ([]string, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleBounty); err != nil {
		return nil, err
	}
	b, err := e.loadOwned(caller, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusActive {
		return nil, ErrNotActive
	}
	now := e.now()
	var fields []string
	if params.Title != nil {
		b.Title = *params.Title
		fields = append(fields, "title")
	}
	if params.Distribution != nil {
		dist, err := NewDistribution(params.Distribution)
		if err != nil {
			return nil, err
		}
		b.Distribution = dist
		fields = append(fields, "distribution")
	}
	if params.SubmissionDeadline != nil {
		deadline := *params.SubmissionDeadline
		if deadline <= now {
			return nil, ErrInvalidDeadline
		}
		if b.HasJudgingDeadline() && deadline >= b.JudgingDeadline {
			return nil, fmt.Errorf("%w: submission deadline must precede judging deadline", ErrInvalidDeadline)
		}
		b.SubmissionDeadline = deadline
		fields = append(fields, "submission_deadline")
	}
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	e.emit(events.BountyUpdated{ID: b.ID, Fields: fields})
	return fields, nil
}

func (e *Engine) refundable(caller types.Address, id uint32) (*Bounty, *big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, nil, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleBounty); err != nil {
		return nil, nil, err
	}
	b, err := e.loadOwned(caller, id)
	if err != nil {
		return nil, nil, err
	}
	if b.Status != StatusActive {
		return nil, nil, ErrNotActive
	}
	if len(b.Submissions) > 0 {
		return nil, nil, ErrHasSubmissions
	}
	base, err := e.baseReward(b)
	if err != nil {
		return nil, nil, err
	}
	if err := e.tokens.Transfer(b.Token, e.vault, b.Owner, base); err != nil {
		return nil, nil, err
	}
	return b, base, nil
}

// Delete refunds the full reward and removes a bounty that has received no
// submissions. It returns the refunded base-unit amount.
func (e *Engine) Delete(caller types.Address, id uint32) (*big.Int, error) {
	b, refunded, err := e.refundable(caller, id)
	if err != nil {
		return nil, err
	}
	if err := e.state.BountyDelete(b.ID); err != nil {
		return nil, err
	}
	e.emit(events.BountyDeleted{ID: b.ID, Owner: b.Owner, Refunded: refunded})
	return refunded, nil
}

// Close refunds the full reward of a bounty without submissions and keeps the
// record in the Closed state.
func (e *Engine) Close(caller types.Address, id uint32) (*big.Int, error) {
	b, refunded, err := e.refundable(caller, id)
	if err != nil {
		return nil, err
	}
	if err := transition(b, StatusClosed); err != nil {
		return nil, err
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	e.emit(events.BountyClosed{ID: b.ID, Owner: b.Owner, Refunded: refunded})
	return refunded, nil
}

func (e *Engine) openForSubmissions(caller types.Address, id uint32, reference string) (*Bounty, int64, error) {
	if err := e.ready(); err != nil {
		return nil, 0, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleBounty); err != nil {
		return nil, 0, err
	}
	if err := e.authorize(caller); err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(reference) == "" {
		return nil, 0, ErrInvalidSubmission
	}
	b, err := e.loadBounty(id)
	if err != nil {
		return nil, 0, err
	}
	if b.Status != StatusActive {
		return nil, 0, ErrNotActive
	}
	now := e.now()
	if now > b.SubmissionDeadline {
		return nil, 0, ErrSubmissionClosed
	}
	return b, now, nil
}

// Apply registers caller as an applicant with the supplied work reference.
// Applying again overwrites the earlier reference without duplicating the
// applicant.
func (e *Engine) Apply(caller types.Address, id uint32, reference string) error {
	b, now, err := e.openForSubmissions(caller, id, reference)
	if err != nil {
		return err
	}
	if sub, ok := b.Submission(caller); ok {
		sub.Reference = reference
		sub.SubmittedAt = now
	} else {
		b.Submissions = append(b.Submissions, Submission{Applicant: caller, Reference: reference, SubmittedAt: now})
	}
	if err := e.state.BountyPut(b); err != nil {
		return err
	}
	e.emit(events.SubmissionAdded{ID: b.ID, Applicant: caller})
	return nil
}

// UpdateSubmission replaces the reference of an existing submission.
func (e *Engine) UpdateSubmission(caller types.Address, id uint32, reference string) error {
	b, now, err := e.openForSubmissions(caller, id, reference)
	if err != nil {
		return err
	}
	sub, ok := b.Submission(caller)
	if !ok {
		return ErrSubmissionNotFound
	}
	sub.Reference = reference
	sub.SubmittedAt = now
	if err := e.state.BountyPut(b); err != nil {
		return err
	}
	e.emit(events.SubmissionUpdated{ID: b.ID, Applicant: caller})
	return nil
}

// Get returns a copy of the stored bounty.
func (e *Engine) Get(id uint32) (*Bounty, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.loadBounty(id)
}
