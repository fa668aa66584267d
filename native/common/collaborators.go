package common

import (
	"fmt"
	"math/big"

	coreerrors "stallion/core/errors"
	"stallion/core/types"
)

// Tokens moves base-unit balances and reports token decimals. Either call may
// fail, which aborts the invocation.
type Tokens interface {
	Transfer(token string, from, to types.Address, amount *big.Int) error
	Decimals(token string) (uint32, error)
}

// Authorizer fails unless the named account authorized the current call.
type Authorizer interface {
	RequireAuthorized(addr types.Address) error
}

// ErrNotAuthorized is returned when the caller did not prove control of the
// named account.
var ErrNotAuthorized = coreerrors.New(coreerrors.ErrUnauthorized, "authorization missing")

// CallerAuthorizer authorizes exactly one account: the verified caller of
// the invocation.
type CallerAuthorizer struct {
	Caller types.Address
}

// RequireAuthorized implements Authorizer.
func (a CallerAuthorizer) RequireAuthorized(addr types.Address) error {
	if a.Caller.IsZero() || a.Caller != addr {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, addr.Hex())
	}
	return nil
}
