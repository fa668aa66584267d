package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stallion/native/fees"
)

func TestLoadParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `DataDir = "./data"
Environment = "test"

[storage]
Backend = "bolt"

[fees]
BountyPercent = 7
GigPercent = 4
JobPercent = 1
BountyTiming = "Creation"

[bounty]
RequireJudgingDeadline = false

[escrow]
FeeAccount = "0x00000000000000000000000000000000000000fe"
Admin = "0x00000000000000000000000000000000000000ad"

[rpc]
ListenAddress = "127.0.0.1:9090"
JWTSecret = "s3cret"
RateLimitPerSecond = 5
RateLimitBurst = 10
TrustedProxies = ["10.0.0.1"]

[sweeper]
Enabled = true
IntervalSeconds = 15

[pauses]
Project = true

[[tokens]]
Symbol = "usdc"
Decimals = 7

[[tokens]]
Symbol = "XLM"
Decimals = 7

[[allocations]]
Address = "0x0000000000000000000000000000000000000001"
Token = "usdc"
Amount = "100000000000000000000000"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "test", cfg.Environment)
	require.Equal(t, "bolt", cfg.Storage.Backend)
	require.Equal(t, filepath.Join("./data", "state.bolt"), cfg.Storage.Path)
	require.Equal(t, uint32(15), cfg.Sweeper.IntervalSeconds)
	require.True(t, cfg.Pauses.Project)
	require.False(t, cfg.Pauses.Bounty)
	require.False(t, cfg.Bounty.RequireJudgingDeadline)
	require.Len(t, cfg.Tokens, 2)
	require.Equal(t, []string{"10.0.0.1"}, cfg.RPC.TrustedProxies)
	require.False(t, cfg.RPC.TrustProxyHeaders)

	schedule := cfg.FeeSchedule()
	require.Equal(t, uint32(7), schedule.BountyPercent)
	require.Equal(t, uint32(4), schedule.GigPercent)
	require.Equal(t, uint32(1), schedule.JobPercent)
	require.Equal(t, fees.TimingCreation, schedule.BountyTiming)

	alloc, err := cfg.Allocations[0].Parse()
	require.NoError(t, err)
	require.Equal(t, "USDC", alloc.Token)
	require.Equal(t, "100000000000000000000000", alloc.Amount.String())
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `dataDir: ./yaml-data
storage:
  backend: memory
fees:
  bountyPercent: 5
  gigPercent: 3
  jobPercent: 2
  bountyTiming: settlement
pauses:
  bounty: true
tokens:
  - symbol: USDC
    decimals: 2
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Storage.Backend)
	require.True(t, cfg.Pauses.IsPaused("bounty"))
	require.False(t, cfg.Pauses.IsPaused("project"))
	require.False(t, cfg.Pauses.IsPaused("unknown"))
	require.Equal(t, []Token{{Symbol: "USDC", Decimals: 2}}, cfg.Tokens)
	require.Equal(t, filepath.Join("./yaml-data", "events.db"), cfg.EventLog.DSN)
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, fees.DefaultSchedule(), cfg.FeeSchedule())
	require.True(t, cfg.Bounty.RequireJudgingDeadline)

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.RPC, reloaded.RPC)
	require.Equal(t, cfg.Storage, reloaded.Storage)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"fee percent":      func(c *Config) { c.Fees.GigPercent = 101 },
		"timing":           func(c *Config) { c.Fees.BountyTiming = "weekly" },
		"backend":          func(c *Config) { c.Storage.Backend = "rocks" },
		"fee account":      func(c *Config) { c.Escrow.FeeAccount = "not-an-address" },
		"zero admin":       func(c *Config) { c.Escrow.Admin = "0x0000000000000000000000000000000000000000" },
		"sweeper interval": func(c *Config) { c.Sweeper.IntervalSeconds = 0 },
		"eventlog driver":  func(c *Config) { c.EventLog.Driver = "mysql" },
		"postgres dsn": func(c *Config) {
			c.EventLog.Driver = "postgres"
			c.EventLog.DSN = ""
		},
		"empty token":      func(c *Config) { c.Tokens = []Token{{Symbol: " "}} },
		"duplicate token":  func(c *Config) { c.Tokens = []Token{{Symbol: "usdc"}, {Symbol: "USDC"}} },
		"decimals":         func(c *Config) { c.Tokens = []Token{{Symbol: "BIG", Decimals: 39}} },
		"allocation": func(c *Config) {
			c.Allocations = []Allocation{{Address: "0x0000000000000000000000000000000000000001", Token: "USDC", Amount: "-5"}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, Default().Validate())
}

func TestVaultDerivation(t *testing.T) {
	cfg := Default()
	vault, err := cfg.Vault()
	require.NoError(t, err)
	require.Equal(t, DerivedVault(), vault)
	require.False(t, vault.IsZero())

	cfg.Escrow.VaultAddress = "0x00000000000000000000000000000000000000aa"
	vault, err = cfg.Vault()
	require.NoError(t, err)
	require.True(t, strings.EqualFold("0x00000000000000000000000000000000000000aa", vault.Hex()))
}

func TestJWTSecretPrefersEnvironment(t *testing.T) {
	cfg := Default()
	cfg.RPC.JWTSecret = "inline"
	require.Equal(t, "inline", cfg.JWTSecret())

	cfg.RPC.JWTSecretEnv = "STALLION_TEST_JWT"
	t.Setenv("STALLION_TEST_JWT", "from-env")
	require.Equal(t, "from-env", cfg.JWTSecret())
}
