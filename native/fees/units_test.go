package fees

import (
	"errors"
	"math/big"
	"testing"

	coreerrors "stallion/core/errors"
)

func TestToBaseUnits(t *testing.T) {
	got, err := ToBaseUnits(big.NewInt(1000), 7)
	if err != nil {
		t.Fatalf("ToBaseUnits: %v", err)
	}
	if got.Cmp(big.NewInt(10_000_000_000)) != 0 {
		t.Fatalf("unexpected base units %s", got)
	}
	zero, err := ToBaseUnits(big.NewInt(42), 0)
	if err != nil || zero.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("expected identity for zero decimals, got %s (%v)", zero, err)
	}
}

func TestToBaseUnitsRejectsOverflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 250)
	if _, err := ToBaseUnits(huge, 18); !errors.Is(err, ErrUnitsOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	tooWide := new(big.Int).Lsh(big.NewInt(1), 300)
	if _, err := ToBaseUnits(tooWide, 0); !errors.Is(err, ErrUnitsOverflow) {
		t.Fatalf("expected overflow for >256-bit input, got %v", err)
	}
	if _, err := ToBaseUnits(tooWide, 0); !errors.Is(err, coreerrors.ErrValidation) {
		t.Fatalf("expected overflow to classify as validation, got %v", err)
	}
}

func TestToBaseUnitsRejectsNegative(t *testing.T) {
	if _, err := ToBaseUnits(big.NewInt(-1), 2); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected negative amount error, got %v", err)
	}
	if _, err := ToBaseUnits(big.NewInt(1), MaxDecimals+1); !errors.Is(err, ErrDecimalsRange) {
		t.Fatalf("expected decimals range error, got %v", err)
	}
}

func TestFromBaseUnitsTruncates(t *testing.T) {
	got, err := FromBaseUnits(big.NewInt(1_234_567), 3)
	if err != nil {
		t.Fatalf("FromBaseUnits: %v", err)
	}
	if got.Cmp(big.NewInt(1234)) != 0 {
		t.Fatalf("unexpected display units %s", got)
	}
}
