package project

import (
	"fmt"
	"math/big"
	"time"

	"stallion/core/events"
	"stallion/core/types"
	nativecommon "stallion/native/common"
	"stallion/native/fees"
)

type engineState interface {
	ProjectPut(*Project) error
	ProjectGet(id uint32) (*Project, bool, error)
	NextProjectID() (uint32, error)
}

// Engine implements the gig/job lifecycle and milestone escrow. Project
// amounts are stored in display units and converted to base units whenever
// funds move.
type Engine struct {
	state      engineState
	tokens     nativecommon.Tokens
	auth       nativecommon.Authorizer
	pauses     nativecommon.PauseView
	emitter    events.Emitter
	vault      types.Address
	feeAccount types.Address
	schedule   fees.Schedule
	nowFn      func() int64
}

// NewEngine creates a project engine with a no-op emitter and the default fee
// schedule.
func NewEngine() *Engine {
	return &Engine{
		emitter:  events.NoopEmitter{},
		schedule: fees.DefaultSchedule(),
		nowFn:    func() int64 { return time.Now().Unix() },
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

// SetVault configures the custody account holding gig escrow.
func (e *Engine) SetVault(addr types.Address) { e.vault = addr }

// SetFeeAccount configures the account receiving platform fees.
func (e *Engine) SetFeeAccount(addr types.Address) { e.feeAccount = addr }

// SetSchedule configures the gig and job fee percents.
func (e *Engine) SetSchedule(schedule fees.Schedule) { e.schedule = schedule }

// SetNowFunc overrides the time source used by the engine.
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

// move converts a display-unit amount to base units and transfers it.
func (e *Engine) move(token string, from, to types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	decimals, err := e.tokens.Decimals(token)
	if err != nil {
		return err
	}
	base, err := fees.ToBaseUnits(amount, decimals)
	if err != nil {
		return err
	}
	return e.tokens.Transfer(token, from, to, base)
}

func (e *Engine) platformFee(domain fees.Domain, reward *big.Int) *big.Int {
	percent, _ := e.schedule.Percent(domain)
	return fees.Compute(reward, percent)
}

// collect escrows amount plus fee from owner into the vault and forwards the
// fee to the fee account.
func (e *Engine) collect(token string, owner types.Address, amount, fee *big.Int) error {
	if fee.Sign() > 0 && e.feeAccount.IsZero() {
		return ErrFeeAccountUnset
	}
	if err := e.move(token, owner, e.vault, new(big.Int).Add(amount, fee)); err != nil {
		return err
	}
	return e.move(token, e.vault, e.feeAccount, fee)
}

func (e *Engine) validateCommon(owner types.Address, token string, total *big.Int, deadline, now int64) (string, error) {
	if err := e.authorize(owner); err != nil {
		return "", err
	}
	normalized := types.NormalizeToken(token)
	if normalized == "" {
		return "", ErrInvalidToken
	}
	if total == nil || total.Sign() <= 0 {
		return "", ErrInvalidReward
	}
	if deadline <= now {
		return "", ErrInvalidDeadline
	}
	return normalized, nil
}

// CreateGig escrows the total reward plus the gig platform fee, forwards the
// fee and records the milestones unpaid.
func (e *Engine) CreateGig(params GigParams) (*Project, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleProject); err != nil {
		return nil, err
	}
	now := e.now()
	token, err := e.validateCommon(params.Owner, params.Token, params.TotalReward, params.Deadline, now)
	if err != nil {
		return nil, err
	}
	if len(params.Milestones) == 0 {
		return nil, ErrNoMilestones
	}
	seen := make(map[uint32]struct{}, len(params.Milestones))
	sum := big.NewInt(0)
	milestones := make([]Milestone, 0, len(params.Milestones))
	for _, spec := range params.Milestones {
		if spec.Amount == nil || spec.Amount.Sign() <= 0 {
			return nil, fmt.Errorf("%w: order %d amount must be positive", ErrInvalidMilestone, spec.Order)
		}
		if _, dup := seen[spec.Order]; dup {
			return nil, fmt.Errorf("%w: duplicate order %d", ErrInvalidMilestone, spec.Order)
		}
		seen[spec.Order] = struct{}{}
		sum.Add(sum, spec.Amount)
		milestones = append(milestones, Milestone{Order: spec.Order, Amount: new(big.Int).Set(spec.Amount)})
	}
	if sum.Cmp(params.TotalReward) != 0 {
		return nil, fmt.Errorf("%w: milestones %s, total %s", ErrMilestoneSum, sum, params.TotalReward)
	}
	fee := e.platformFee(fees.DomainGig, params.TotalReward)

	id, err := e.state.NextProjectID()
	if err != nil {
		return nil, err
	}
	p := &Project{
		ID:              id,
		Owner:           params.Owner,
		Token:           token,
		Kind:            KindGig,
		TotalReward:     new(big.Int).Set(params.TotalReward),
		PlatformFee:     fee,
		RemainingEscrow: new(big.Int).Set(params.TotalReward),
		Deadline:        params.Deadline,
		Status:          StatusActive,
		Milestones:      milestones,
		CreatedAt:       now,
	}
	if err := e.collect(token, p.Owner, p.TotalReward, fee); err != nil {
		return nil, err
	}
	if err := e.state.ProjectPut(p); err != nil {
		return nil, err
	}
	e.emit(events.ProjectGigCreated{ID: p.ID, Owner: p.Owner, Token: p.Token, TotalReward: p.TotalReward, Fee: fee})
	return p.Clone(), nil
}

// CreateJob records a job and collects only the job platform fee. The work
// reward itself is settled outside the engine.
func (e *Engine) CreateJob(params JobParams) (*Project, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleProject); err != nil {
		return nil, err
	}
	now := e.now()
	token, err := e.validateCommon(params.Owner, params.Token, params.TotalReward, params.Deadline, now)
	if err != nil {
		return nil, err
	}
	fee := e.platformFee(fees.DomainJob, params.TotalReward)

	id, err := e.state.NextProjectID()
	if err != nil {
		return nil, err
	}
	p := &Project{
		ID:              id,
		Owner:           params.Owner,
		Token:           token,
		Kind:            KindJob,
		TotalReward:     new(big.Int).Set(params.TotalReward),
		PlatformFee:     fee,
		RemainingEscrow: big.NewInt(0),
		Deadline:        params.Deadline,
		Status:          StatusActive,
		CreatedAt:       now,
	}
	if err := e.collect(token, p.Owner, big.NewInt(0), fee); err != nil {
		return nil, err
	}
	if err := e.state.ProjectPut(p); err != nil {
		return nil, err
	}
	e.emit(events.ProjectJobCreated{ID: p.ID, Owner: p.Owner, Token: p.Token, Fee: fee})
	return p.Clone(), nil
}

func (e *Engine) loadActiveGig(caller types.Address, id uint32) (*Project, error) {
	if err := e.authorize(caller); err != nil {
		return nil, err
	}
	p, ok, err := e.state.ProjectGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	if p.Owner != caller {
		return nil, ErrNotOwner
	}
	if p.Kind != KindGig {
		return nil, ErrNotGig
	}
	if p.Status != StatusActive {
		return nil, ErrNotActive
	}
	return p, nil
}

// ReleaseMilestone pays the milestone with the supplied order to contributor.
// The requested amount must match the milestone exactly. The project becomes
// Completed once every milestone is paid.
func (e *Engine) ReleaseMilestone(caller types.Address, id uint32, order uint32, contributor types.Address, amount *big.Int) (*Project, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleProject); err != nil {
		return nil, err
	}
	p, err := e.loadActiveGig(caller, id)
	if err != nil {
		return nil, err
	}
	if contributor.IsZero() {
		return nil, fmt.Errorf("%w: contributor", ErrInvalidAddress)
	}
	m := p.FindMilestone(order)
	if m == nil {
		return nil, fmt.Errorf("%w: order %d", ErrMilestoneNotFound, order)
	}
	if m.Paid {
		return nil, fmt.Errorf("%w: order %d", ErrMilestoneAlreadyPaid, order)
	}
	if amount == nil || amount.Cmp(m.Amount) != 0 {
		return nil, fmt.Errorf("%w: order %d expects %s", ErrAmountMismatch, order, m.Amount)
	}
	if p.RemainingEscrow.Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: remaining %s, requested %s", ErrInsufficientEscrow, p.RemainingEscrow, amount)
	}
	if err := e.move(p.Token, e.vault, contributor, amount); err != nil {
		return nil, err
	}
	now := e.now()
	m.Paid = true
	m.PaidAt = now
	m.Contributor = contributor
	p.RemainingEscrow = new(big.Int).Sub(p.RemainingEscrow, amount)
	completed := p.AllPaid()
	if completed {
		if err := transition(p, StatusCompleted); err != nil {
			return nil, err
		}
	}
	if err := e.state.ProjectPut(p); err != nil {
		return nil, err
	}
	e.emit(events.MilestonePaid{ID: p.ID, Order: order, Contributor: contributor, Amount: amount})
	if completed {
		e.emit(events.ProjectCompleted{ID: p.ID})
	}
	return p.Clone(), nil
}

// CancelGig refunds the remaining escrow to the owner and marks the gig
// Cancelled. It returns the refunded display-unit amount, which may be zero.
func (e *Engine) CancelGig(caller types.Address, id uint32) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleProject); err != nil {
		return nil, err
	}
	p, err := e.loadActiveGig(caller, id)
	if err != nil {
		return nil, err
	}
	refunded := new(big.Int).Set(p.RemainingEscrow)
	if err := e.move(p.Token, e.vault, p.Owner, refunded); err != nil {
		return nil, err
	}
	p.RemainingEscrow = big.NewInt(0)
	if err := transition(p, StatusCancelled); err != nil {
		return nil, err
	}
	if err := e.state.ProjectPut(p); err != nil {
		return nil, err
	}
	e.emit(events.ProjectCancelled{ID: p.ID, Refunded: refunded})
	return refunded, nil
}

// Get returns a copy of the stored project.
func (e *Engine) Get(id uint32) (*Project, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	p, ok, err := e.state.ProjectGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	return p, nil
}
