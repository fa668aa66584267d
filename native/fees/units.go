package fees

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	coreerrors "stallion/core/errors"
)

// MaxDecimals bounds the decimal count accepted from token metadata.
const MaxDecimals = 38

var (
	ErrNegativeAmount = coreerrors.New(coreerrors.ErrValidation, "fees: amount must not be negative")
	ErrUnitsOverflow  = coreerrors.New(coreerrors.ErrValidation, "fees: base unit conversion overflows")
	ErrDecimalsRange  = coreerrors.New(coreerrors.ErrValidation, "fees: decimals out of range")
)

// ToBaseUnits converts a display amount to base units: amount * 10^decimals.
// The multiplication runs in 256-bit arithmetic and reports overflow instead
// of wrapping.
func ToBaseUnits(amount *big.Int, decimals uint32) (*big.Int, error) {
	if amount == nil {
		return big.NewInt(0), nil
	}
	if amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if decimals > MaxDecimals {
		return nil, fmt.Errorf("%w: %d", ErrDecimalsRange, decimals)
	}
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, ErrUnitsOverflow
	}
	multiplier := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	product, overflow := new(uint256.Int).MulOverflow(value, multiplier)
	if overflow {
		return nil, ErrUnitsOverflow
	}
	return product.ToBig(), nil
}

// FromBaseUnits converts base units back to whole display units, truncating
// any fractional part.
func FromBaseUnits(amount *big.Int, decimals uint32) (*big.Int, error) {
	if amount == nil {
		return big.NewInt(0), nil
	}
	if amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if decimals > MaxDecimals {
		return nil, fmt.Errorf("%w: %d", ErrDecimalsRange, decimals)
	}
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, ErrUnitsOverflow
	}
	divisor := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	return new(uint256.Int).Div(value, divisor).ToBig(), nil
}
