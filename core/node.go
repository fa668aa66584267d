package core

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stallion/config"
	"stallion/core/events"
	corestate "stallion/core/state"
	"stallion/core/types"
	"stallion/native/bank"
	"stallion/native/bounty"
	nativecommon "stallion/native/common"
	"stallion/native/fees"
	"stallion/native/params"
	pausestate "stallion/native/params/state"
	"stallion/native/project"
	"stallion/observability/metrics"
	telemetry "stallion/observability/otel"
	"stallion/storage"
)

// Options wires a Node.
type Options struct {
	Bounty   bounty.Config
	Schedule fees.Schedule
	Vault    types.Address
	// Now returns unix seconds. It is read once per operation.
	Now     func() int64
	Emitter events.Emitter
	Logger  *slog.Logger
	Metrics *metrics.EscrowMetrics
}

// Node is the central controller. Every operation runs as one serialized
// unit of work over a fresh state overlay: it either commits every write,
// balance movement and event, or none of them.
type Node struct {
	db       storage.Database
	bounty   bounty.Config
	schedule fees.Schedule
	vault    types.Address
	nowFn    func() int64
	emitter  events.Emitter
	logger   *slog.Logger
	metrics  *metrics.EscrowMetrics
	tracer   trace.Tracer
	stateMu  sync.Mutex
}

func NewNode(db storage.Database, opts Options) (*Node, error) {
	if db == nil {
		return nil, fmt.Errorf("core: database required")
	}
	if opts.Vault.IsZero() {
		return nil, fmt.Errorf("core: vault address required")
	}
	if err := opts.Schedule.Validate(); err != nil {
		return nil, err
	}
	n := &Node{
		db:       db,
		bounty:   opts.Bounty,
		schedule: opts.Schedule,
		vault:    opts.Vault,
		nowFn:    opts.Now,
		emitter:  opts.Emitter,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		tracer:   telemetry.Tracer("stallion/core"),
	}
	if n.nowFn == nil {
		n.nowFn = func() int64 { return time.Now().Unix() }
	}
	if n.emitter == nil {
		n.emitter = events.NoopEmitter{}
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	// The bounty engine takes its fee rules from the node schedule.
	n.bounty.FeePercent, _ = n.schedule.Percent(fees.DomainBounty)
	n.bounty.FeeTiming = n.schedule.BountyTiming.Normalize()
	return n, nil
}

// Vault returns the custody account.
func (n *Node) Vault() types.Address { return n.vault }

// unit is the per-operation context handed to an operation body.
type unit struct {
	manager  *corestate.Manager
	ledger   *bank.Ledger
	buffer   *events.Buffer
	caller   types.Address
	now      int64
	bounties *bounty.Engine
	projects *project.Engine
	params   *params.Engine
	after    []func()
}

func (u *unit) onCommit(fn func()) { u.after = append(u.after, fn) }

func (n *Node) newUnit(ctx context.Context) (*unit, error) {
	manager := corestate.NewManager(n.db)
	now := n.nowFn()
	clock := func() int64 { return now }
	caller := CallerFrom(ctx)
	auth := nativecommon.CallerAuthorizer{Caller: caller}
	ledger := bank.NewLedger(manager)
	buffer := &events.Buffer{}

	feeAccount, err := params.NewStore(manager).FeeAccount()
	if err != nil {
		return nil, err
	}
	pauses, err := pausestate.Load(manager)
	if err != nil {
		return nil, err
	}

	bountyEngine := bounty.NewEngine()
	bountyEngine.SetState(manager)
	bountyEngine.SetTokens(ledger)
	bountyEngine.SetAuthorizer(auth)
	bountyEngine.SetPauses(pauses)
	bountyEngine.SetVault(n.vault)
	bountyEngine.SetFeeAccount(feeAccount)
	bountyEngine.SetConfig(n.bounty)
	bountyEngine.SetNowFunc(clock)
	bountyEngine.SetEmitter(buffer)

	projectEngine := project.NewEngine()
	projectEngine.SetState(manager)
	projectEngine.SetTokens(ledger)
	projectEngine.SetAuthorizer(auth)
	projectEngine.SetPauses(pauses)
	projectEngine.SetVault(n.vault)
	projectEngine.SetFeeAccount(feeAccount)
	projectEngine.SetSchedule(n.schedule)
	projectEngine.SetNowFunc(clock)
	projectEngine.SetEmitter(buffer)

	paramsEngine := params.NewEngine()
	paramsEngine.SetState(manager)
	paramsEngine.SetAuthorizer(auth)
	paramsEngine.SetEmitter(buffer)

	return &unit{
		manager:  manager,
		ledger:   ledger,
		buffer:   buffer,
		caller:   caller,
		now:      now,
		bounties: bountyEngine,
		projects: projectEngine,
		params:   paramsEngine,
	}, nil
}

// execute runs fn as one atomic unit of work. Events reach the node emitter
// only after the state commit succeeded.
func (n *Node) execute(ctx context.Context, op string, fn func(u *unit) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := n.tracer.Start(ctx, "stallion."+op)
	defer span.End()

	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	u, err := n.newUnit(ctx)
	if err == nil {
		span.SetAttributes(attribute.String("caller", u.caller.Hex()), attribute.Int64("now", u.now))
		err = fn(u)
	}
	if err == nil {
		err = u.manager.Commit()
	}
	n.metrics.ObserveOperation(op, err)
	if err != nil {
		if u != nil {
			u.manager.Discard()
			u.buffer.Discard()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		n.logger.Warn("operation aborted", "op", op, "caller", CallerFrom(ctx).Hex(), "error", err)
		return err
	}
	committed := u.buffer.Events()
	u.buffer.Flush(n.emitter)
	for _, fn := range u.after {
		fn()
	}
	n.logger.Info("operation committed", "op", op, "caller", u.caller.Hex(), "events", len(committed))
	return nil
}

// view runs fn against committed state without writing.
func (n *Node) view(fn func(m *corestate.Manager) error) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return fn(corestate.NewManager(n.db))
}

func (n *Node) baseUnits(u *unit, token string, amount *big.Int) *big.Int {
	decimals, err := u.ledger.Decimals(token)
	if err != nil {
		return nil
	}
	base, err := fees.ToBaseUnits(amount, decimals)
	if err != nil {
		return nil
	}
	return base
}

// BootstrapParams seeds a fresh store.
type BootstrapParams struct {
	Tokens      []corestate.TokenMetadata
	Allocations []Allocation
	Admin       types.Address
	FeeAccount  types.Address
	Pauses      config.Pauses
}

// Allocation credits a base-unit balance once at bootstrap.
type Allocation struct {
	Address types.Address
	Token   string
	Amount  *big.Int
}

const paramsKeyBootstrapped = "system/bootstrapped"

// Bootstrap registers tokens and initialises the platform record. Pauses and
// allocations are applied only on the first call so restarts never credit
// twice.
func (n *Node) Bootstrap(ctx context.Context, p BootstrapParams) error {
	return n.execute(ctx, "bootstrap", func(u *unit) error {
		for _, tok := range p.Tokens {
			if err := u.manager.RegisterToken(tok.Symbol, tok.Decimals); err != nil {
				return err
			}
		}
		if _, err := u.params.Initialize(p.Admin, p.FeeAccount); err != nil {
			return err
		}
		_, done, err := u.manager.ParamStoreGet(paramsKeyBootstrapped)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		store := params.NewStore(u.manager)
		if err := store.SetPauses(p.Pauses); err != nil {
			return err
		}
		for _, alloc := range p.Allocations {
			if err := u.ledger.Credit(alloc.Token, alloc.Address, alloc.Amount); err != nil {
				return fmt.Errorf("allocation %s %s: %w", alloc.Address.Hex(), alloc.Token, err)
			}
		}
		return u.manager.ParamStoreSet(paramsKeyBootstrapped, []byte("1"))
	})
}
