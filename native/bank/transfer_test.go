package bank

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stallion/core/state"
	"stallion/core/types"
	"stallion/storage"
)

func newLedger(t *testing.T) (*Ledger, *state.Manager) {
	t.Helper()
	mgr := state.NewManager(storage.NewMemDB())
	require.NoError(t, mgr.RegisterToken("USDC", 7))
	return NewLedger(mgr), mgr
}

func TestLedgerTransferMovesBalance(t *testing.T) {
	ledger, _ := newLedger(t)
	alice := types.Address{0x01}
	bob := types.Address{0x02}
	require.NoError(t, ledger.Credit("usdc", alice, big.NewInt(100)))

	require.NoError(t, ledger.Transfer("USDC", alice, bob, big.NewInt(30)))

	aliceBal, err := ledger.BalanceOf("USDC", alice)
	require.NoError(t, err)
	require.Equal(t, "70", aliceBal.String())
	bobBal, err := ledger.BalanceOf("USDC", bob)
	require.NoError(t, err)
	require.Equal(t, "30", bobBal.String())
}

func TestLedgerTransferRejectsOverdraft(t *testing.T) {
	ledger, _ := newLedger(t)
	alice := types.Address{0x01}
	require.NoError(t, ledger.Credit("USDC", alice, big.NewInt(5)))

	err := ledger.Transfer("USDC", alice, types.Address{0x02}, big.NewInt(6))
	require.True(t, errors.Is(err, ErrInsufficientBalance))
	bal, err := ledger.BalanceOf("USDC", alice)
	require.NoError(t, err)
	require.Equal(t, "5", bal.String())
}

func TestLedgerUnknownTokenAndDecimals(t *testing.T) {
	ledger, _ := newLedger(t)
	decimals, err := ledger.Decimals("usdc")
	require.NoError(t, err)
	require.EqualValues(t, 7, decimals)

	_, err = ledger.Decimals("DOGE")
	require.ErrorIs(t, err, ErrUnknownToken)
	err = ledger.Transfer("DOGE", types.Address{0x01}, types.Address{0x02}, big.NewInt(1))
	require.ErrorIs(t, err, ErrUnknownToken)
	require.ErrorIs(t, ledger.Transfer("USDC", types.Address{0x01}, types.Address{0x02}, big.NewInt(-1)), ErrNegativeAmount)
	require.NoError(t, ledger.Transfer("USDC", types.Address{0x01}, types.Address{0x02}, big.NewInt(0)))
}
