package common

import (
	"errors"
	"testing"

	coreerrors "stallion/core/errors"
	"stallion/core/types"
)

func TestGuard(t *testing.T) {
	if err := Guard(nil, ModuleBounty); err != nil {
		t.Fatalf("nil view must not block: %v", err)
	}
	pauses := Pauses{ModuleBounty: true}
	if err := Guard(pauses, ModuleBounty); !errors.Is(err, ErrModulePaused) {
		t.Fatalf("expected paused error, got %v", err)
	}
	if err := Guard(pauses, ModuleProject); err != nil {
		t.Fatalf("project module not paused: %v", err)
	}
	if !errors.Is(ErrModulePaused, coreerrors.ErrLifecycle) {
		t.Fatalf("paused must classify as lifecycle")
	}
}

func TestCallerAuthorizer(t *testing.T) {
	caller := types.Address{0x01}
	auth := CallerAuthorizer{Caller: caller}
	if err := auth.RequireAuthorized(caller); err != nil {
		t.Fatalf("caller must be authorized: %v", err)
	}
	err := auth.RequireAuthorized(types.Address{0x02})
	if !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := (CallerAuthorizer{}).RequireAuthorized(types.ZeroAddress); err == nil {
		t.Fatalf("anonymous caller must not authorize the zero address")
	}
}
