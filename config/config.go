package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir     string       `toml:"DataDir" yaml:"dataDir"`
	Environment string       `toml:"Environment" yaml:"environment"`
	Storage     Storage      `toml:"storage" yaml:"storage"`
	Fees        Fees         `toml:"fees" yaml:"fees"`
	Bounty      Bounty       `toml:"bounty" yaml:"bounty"`
	Escrow      Escrow       `toml:"escrow" yaml:"escrow"`
	RPC         RPC          `toml:"rpc" yaml:"rpc"`
	Sweeper     Sweeper      `toml:"sweeper" yaml:"sweeper"`
	Log         Log          `toml:"log" yaml:"log"`
	Telemetry   Telemetry    `toml:"telemetry" yaml:"telemetry"`
	EventLog    EventLog     `toml:"eventlog" yaml:"eventlog"`
	Pauses      Pauses       `toml:"pauses" yaml:"pauses"`
	Tokens      []Token      `toml:"tokens" yaml:"tokens"`
	Allocations []Allocation `toml:"allocations" yaml:"allocations"`
}

// Default returns the configuration written on first start.
func Default() *Config {
	return &Config{
		DataDir:     "./stallion-data",
		Environment: "dev",
		Storage:     Storage{Backend: "leveldb"},
		Fees: Fees{
			BountyPercent: 5,
			GigPercent:    3,
			JobPercent:    2,
			BountyTiming:  "settlement",
		},
		Bounty: Bounty{RequireJudgingDeadline: true},
		RPC: RPC{
			ListenAddress:      ":8080",
			Issuer:             "stallion",
			Audience:           "stallion-rpc",
			RateLimitPerSecond: 20,
			RateLimitBurst:     40,
			ReadTimeoutSeconds: 10,
		},
		Sweeper: Sweeper{Enabled: true, IntervalSeconds: 60},
		Log:     Log{Level: "info", MaxSizeMB: 100, MaxBackups: 5},
		EventLog: EventLog{
			Driver: "sqlite",
		},
		Tokens: []Token{{Symbol: "USDC", Decimals: 7}},
	}
}

// Load loads the configuration from the given path. A missing file is
// created with defaults. Paths ending in .yaml or .yml are decoded as YAML,
// everything else as TOML.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := Default()
	if isYAML(path) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./stallion-data"
	}
	if strings.TrimSpace(cfg.Storage.Backend) == "" {
		cfg.Storage.Backend = "leveldb"
	}
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		switch strings.ToLower(cfg.Storage.Backend) {
		case "bolt":
			cfg.Storage.Path = filepath.Join(cfg.DataDir, "state.bolt")
		default:
			cfg.Storage.Path = filepath.Join(cfg.DataDir, "state")
		}
	}
	if cfg.EventLog.Driver == "sqlite" && strings.TrimSpace(cfg.EventLog.DSN) == "" {
		cfg.EventLog.DSN = filepath.Join(cfg.DataDir, "events.db")
	}
	if cfg.Sweeper.IntervalSeconds == 0 {
		cfg.Sweeper.IntervalSeconds = 60
	}
	if cfg.Tokens == nil {
		cfg.Tokens = []Token{}
	}
}

// JWTSecret resolves the HMAC secret, preferring the environment variable
// named by RPC.JWTSecretEnv.
func (cfg *Config) JWTSecret() string {
	if env := strings.TrimSpace(cfg.RPC.JWTSecretEnv); env != "" {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return cfg.RPC.JWTSecret
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
	cfg.applyDefaults()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		defer enc.Close()
		return enc.Encode(cfg)
	}
	return toml.NewEncoder(f).Encode(cfg)
}
