package params

import (
	"errors"
	"fmt"

	"stallion/config"
	coreerrors "stallion/core/errors"
	"stallion/core/events"
	"stallion/core/types"
	nativecommon "stallion/native/common"
)

var (
	ErrInvalidAddress = coreerrors.New(coreerrors.ErrValidation, "params: invalid address")
	ErrNotInitialized = coreerrors.New(coreerrors.ErrLifecycle, "params: platform not initialized")
	ErrNotAdmin       = coreerrors.New(coreerrors.ErrUnauthorized, "params: caller is not the admin")

	errNilState = errors.New("params: state not configured")
	errNilAuth  = errors.New("params: authorizer not configured")
)

// Engine applies admin operations to the platform record.
type Engine struct {
	store   *Store
	auth    nativecommon.Authorizer
	emitter events.Emitter
}

// NewEngine creates a params engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

func (e *Engine) SetState(state StoreState) { e.store = NewStore(state) }

func (e *Engine) SetAuthorizer(auth nativecommon.Authorizer) { e.auth = auth }

func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) ready() error {
	if e.store == nil || e.store.state == nil {
		return errNilState
	}
	if e.auth == nil {
		return errNilAuth
	}
	return nil
}

// Initialize writes the platform record when none exists yet. An existing
// record is left untouched so admin updates survive restarts.
func (e *Engine) Initialize(admin, feeAccount types.Address) (Platform, error) {
	if e.store == nil || e.store.state == nil {
		return Platform{}, errNilState
	}
	current, ok, err := e.store.Platform()
	if err != nil {
		return Platform{}, err
	}
	if ok {
		return current, nil
	}
	p := Platform{Admin: admin, FeeAccount: feeAccount}
	if err := e.store.SetPlatform(p); err != nil {
		return Platform{}, err
	}
	return p, nil
}

func (e *Engine) loadForAdmin() (Platform, error) {
	if err := e.ready(); err != nil {
		return Platform{}, err
	}
	p, ok, err := e.store.Platform()
	if err != nil {
		return Platform{}, err
	}
	if !ok || p.Admin.IsZero() {
		return Platform{}, ErrNotInitialized
	}
	if err := e.auth.RequireAuthorized(p.Admin); err != nil {
		return Platform{}, fmt.Errorf("%w: %v", ErrNotAdmin, err)
	}
	return p, nil
}

// UpdateAdmin replaces the platform admin. Only the current admin may call it.
func (e *Engine) UpdateAdmin(next types.Address) (Platform, error) {
	if next.IsZero() {
		return Platform{}, ErrInvalidAddress
	}
	p, err := e.loadForAdmin()
	if err != nil {
		return Platform{}, err
	}
	p.Admin = next
	if err := e.store.SetPlatform(p); err != nil {
		return Platform{}, err
	}
	e.emitter.Emit(events.AdminUpdated{Admin: next})
	return p, nil
}

// UpdateFeeAccount replaces the account receiving platform fees.
func (e *Engine) UpdateFeeAccount(next types.Address) (Platform, error) {
	if next.IsZero() {
		return Platform{}, ErrInvalidAddress
	}
	p, err := e.loadForAdmin()
	if err != nil {
		return Platform{}, err
	}
	p.FeeAccount = next
	if err := e.store.SetPlatform(p); err != nil {
		return Platform{}, err
	}
	e.emitter.Emit(events.FeeAccountUpdated{FeeAccount: next})
	return p, nil
}

// UpdatePauses replaces the module pause toggles. Only the admin may call it.
func (e *Engine) UpdatePauses(pauses config.Pauses) error {
	if _, err := e.loadForAdmin(); err != nil {
		return err
	}
	return e.store.SetPauses(pauses)
}
