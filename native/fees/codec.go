package fees

import (
	"fmt"
	"strings"
)

// Timing selects when the bounty platform fee is collected.
type Timing string

const (
	// TimingSettlement deducts the fee from the escrowed reward when the
	// bounty settles.
	TimingSettlement Timing = "settlement"
	// TimingCreation escrows the fee on top of the reward at creation and
	// forwards it to the fee account immediately.
	TimingCreation Timing = "creation"
)

// Valid reports whether the timing is supported. The empty value is treated
// as TimingSettlement.
func (t Timing) Valid() bool {
	switch t {
	case "", TimingSettlement, TimingCreation:
		return true
	default:
		return false
	}
}

// Normalize returns the canonical timing, defaulting to settlement.
func (t Timing) Normalize() Timing {
	if t == "" {
		return TimingSettlement
	}
	return t
}

// UnmarshalText accepts case-insensitive timing names from TOML, YAML or JSON.
func (t *Timing) UnmarshalText(text []byte) error {
	parsed := Timing(strings.ToLower(strings.TrimSpace(string(text))))
	if !parsed.Valid() {
		return fmt.Errorf("fees: unsupported timing %q", string(text))
	}
	*t = parsed.Normalize()
	return nil
}

// MarshalText encodes the canonical timing name.
func (t Timing) MarshalText() ([]byte, error) {
	return []byte(t.Normalize()), nil
}
