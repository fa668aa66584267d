package bank

import (
	"fmt"
	"math/big"

	coreerrors "stallion/core/errors"
	"stallion/core/types"
)

var (
	// ErrUnknownToken is returned for tokens that were never registered.
	ErrUnknownToken = coreerrors.New(coreerrors.ErrValidation, "bank: unknown token")
	// ErrInsufficientBalance is returned when the sender cannot cover a transfer.
	ErrInsufficientBalance = coreerrors.New(coreerrors.ErrFundSafety, "bank: insufficient balance")
	// ErrNegativeAmount rejects negative transfer and credit amounts.
	ErrNegativeAmount = coreerrors.New(coreerrors.ErrValidation, "bank: negative amount")
)

// LedgerState captures the subset of state manager capabilities required by
// the ledger.
type LedgerState interface {
	Balance(addr []byte, symbol string) (*big.Int, error)
	SetBalance(addr []byte, symbol string, amount *big.Int) error
	TokenDecimals(symbol string) (uint32, bool, error)
}

// Ledger moves base-unit token balances held in state. Because balances live
// in the same state manager as escrow records, transfers commit or roll back
// together with the rest of the unit of work.
type Ledger struct {
	state LedgerState
}

// NewLedger constructs a ledger over the supplied state backend.
func NewLedger(state LedgerState) *Ledger {
	return &Ledger{state: state}
}

func (l *Ledger) withState() (LedgerState, error) {
	if l == nil || l.state == nil {
		return nil, fmt.Errorf("bank: state not configured")
	}
	return l.state, nil
}

// Decimals returns the number of decimals registered for token.
func (l *Ledger) Decimals(token string) (uint32, error) {
	state, err := l.withState()
	if err != nil {
		return 0, err
	}
	decimals, ok, err := state.TokenDecimals(types.NormalizeToken(token))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownToken, token)
	}
	return decimals, nil
}

// Transfer moves amount base units of token from one account to another.
// Zero transfers succeed without touching state.
func (l *Ledger) Transfer(token string, from, to types.Address, amount *big.Int) error {
	state, err := l.withState()
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	symbol := types.NormalizeToken(token)
	if _, ok, err := state.TokenDecimals(symbol); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownToken, token)
	}
	if from == to {
		return nil
	}
	fromBal, err := state.Balance(from[:], symbol)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), fromBal, amount)
	}
	toBal, err := state.Balance(to[:], symbol)
	if err != nil {
		return err
	}
	if err := state.SetBalance(from[:], symbol, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return state.SetBalance(to[:], symbol, new(big.Int).Add(toBal, amount))
}

// Credit increases the base-unit balance of addr. It is used to seed
// balances at bootstrap and in tests.
func (l *Ledger) Credit(token string, addr types.Address, amount *big.Int) error {
	state, err := l.withState()
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	symbol := types.NormalizeToken(token)
	bal, err := state.Balance(addr[:], symbol)
	if err != nil {
		return err
	}
	return state.SetBalance(addr[:], symbol, new(big.Int).Add(bal, amount))
}

// BalanceOf returns the base-unit balance of addr.
func (l *Ledger) BalanceOf(token string, addr types.Address) (*big.Int, error) {
	state, err := l.withState()
	if err != nil {
		return nil, err
	}
	return state.Balance(addr[:], types.NormalizeToken(token))
}
