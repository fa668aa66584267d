package config

import (
	"fmt"
	"strings"

	"stallion/core/types"
	"stallion/native/fees"
)

var (
	MaxFeePercent = uint32(100)
	MaxDecimals   = uint32(fees.MaxDecimals)
)

// Validate rejects configurations the node cannot run with.
func (cfg *Config) Validate() error {
	for name, pct := range map[string]uint32{
		"fees.BountyPercent": cfg.Fees.BountyPercent,
		"fees.GigPercent":    cfg.Fees.GigPercent,
		"fees.JobPercent":    cfg.Fees.JobPercent,
	} {
		if pct > MaxFeePercent {
			return fmt.Errorf("%s: %d exceeds %d", name, pct, MaxFeePercent)
		}
	}
	if !fees.Timing(strings.ToLower(cfg.Fees.BountyTiming)).Valid() {
		return fmt.Errorf("fees.BountyTiming: unsupported value %q", cfg.Fees.BountyTiming)
	}
	switch strings.ToLower(cfg.Storage.Backend) {
	case "memory", "leveldb", "bolt":
	default:
		return fmt.Errorf("storage.Backend: unsupported value %q", cfg.Storage.Backend)
	}
	for field, raw := range map[string]string{
		"escrow.VaultAddress": cfg.Escrow.VaultAddress,
		"escrow.FeeAccount":   cfg.Escrow.FeeAccount,
		"escrow.Admin":        cfg.Escrow.Admin,
	} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		addr, err := types.ParseAddress(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		if addr.IsZero() {
			return fmt.Errorf("%s: zero address", field)
		}
	}
	if cfg.Sweeper.Enabled && cfg.Sweeper.IntervalSeconds == 0 {
		return fmt.Errorf("sweeper.IntervalSeconds: must be positive")
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.SampleRatio: must be within [0,1]")
	}
	if cfg.RPC.RateLimitPerSecond < 0 || cfg.RPC.RateLimitBurst < 0 {
		return fmt.Errorf("rpc: rate limits must be non-negative")
	}
	switch strings.ToLower(cfg.EventLog.Driver) {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("eventlog.Driver: unsupported value %q", cfg.EventLog.Driver)
	}
	if strings.EqualFold(cfg.EventLog.Driver, "postgres") && strings.TrimSpace(cfg.EventLog.DSN) == "" {
		return fmt.Errorf("eventlog.DSN: required for postgres")
	}
	seen := make(map[string]struct{}, len(cfg.Tokens))
	for _, tok := range cfg.Tokens {
		symbol := types.NormalizeToken(tok.Symbol)
		if symbol == "" {
			return fmt.Errorf("tokens: symbol must not be empty")
		}
		if _, dup := seen[symbol]; dup {
			return fmt.Errorf("tokens: duplicate symbol %s", symbol)
		}
		seen[symbol] = struct{}{}
		if tok.Decimals > MaxDecimals {
			return fmt.Errorf("tokens: %s decimals %d exceeds %d", symbol, tok.Decimals, MaxDecimals)
		}
	}
	for i, alloc := range cfg.Allocations {
		if _, err := alloc.Parse(); err != nil {
			return fmt.Errorf("allocations[%d]: %w", i, err)
		}
	}
	return nil
}

// FeeSchedule converts the fee section into the runtime schedule.
func (cfg *Config) FeeSchedule() fees.Schedule {
	return fees.Schedule{
		BountyPercent: cfg.Fees.BountyPercent,
		GigPercent:    cfg.Fees.GigPercent,
		JobPercent:    cfg.Fees.JobPercent,
		BountyTiming:  fees.Timing(strings.ToLower(cfg.Fees.BountyTiming)).Normalize(),
	}
}
