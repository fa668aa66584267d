package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"stallion/core/types"
)

// vaultSeed derives the default escrow vault address.
const vaultSeed = "stallion/vault"

// DerivedVault returns keccak256(vaultSeed)[12:].
func DerivedVault() types.Address {
	return types.BytesToAddress(crypto.Keccak256([]byte(vaultSeed))[12:])
}

// Vault resolves the configured escrow vault, falling back to DerivedVault.
func (cfg *Config) Vault() (types.Address, error) {
	if strings.TrimSpace(cfg.Escrow.VaultAddress) == "" {
		return DerivedVault(), nil
	}
	return types.ParseAddress(cfg.Escrow.VaultAddress)
}

// OptionalAddress parses raw, returning the zero address when raw is empty.
func OptionalAddress(raw string) (types.Address, error) {
	if strings.TrimSpace(raw) == "" {
		return types.ZeroAddress, nil
	}
	return types.ParseAddress(raw)
}

// ParsedAllocation is an Allocation decoded into runtime values.
type ParsedAllocation struct {
	Address types.Address
	Token   string
	Amount  *big.Int
}

// Parse decodes the allocation address and base-unit amount.
func (a Allocation) Parse() (ParsedAllocation, error) {
	addr, err := types.ParseAddress(a.Address)
	if err != nil {
		return ParsedAllocation{}, err
	}
	token := types.NormalizeToken(a.Token)
	if token == "" {
		return ParsedAllocation{}, fmt.Errorf("token must not be empty")
	}
	amount, err := parseUintAmount(a.Amount)
	if err != nil {
		return ParsedAllocation{}, fmt.Errorf("invalid amount: %w", err)
	}
	return ParsedAllocation{Address: addr, Token: token, Amount: amount}, nil
}

func parseUintAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("not a decimal integer: %q", raw)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("negative amount: %q", raw)
	}
	return value, nil
}
