package types

import (
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Address identifies a marketplace account. Owners, applicants, contributors,
// the escrow vault and the fee account all share this representation.
type Address [20]byte

// ZeroAddress is the unset account.
var ZeroAddress Address

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == ZeroAddress }

// Hex returns the EIP-55 checksummed hex form.
func (a Address) Hex() string { return ethcommon.Address(a).Hex() }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, len(a))
	copy(out, a[:])
	return out
}

// MarshalText encodes the address as hex for JSON payloads.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.Hex()), nil }

// UnmarshalText decodes a hex encoded address.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress decodes a 0x-prefixed or bare 40 character hex address.
func ParseAddress(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)
	if !ethcommon.IsHexAddress(trimmed) {
		return ZeroAddress, fmt.Errorf("invalid address %q", raw)
	}
	return Address(ethcommon.HexToAddress(trimmed)), nil
}

// BytesToAddress left-pads or truncates b into an address.
func BytesToAddress(b []byte) Address {
	return Address(ethcommon.BytesToAddress(b))
}
