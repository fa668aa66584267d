package config

// Storage selects the key-value backend.
type Storage struct {
	Backend string `toml:"Backend" yaml:"backend"`
	Path    string `toml:"Path" yaml:"path"`
}

// Fees holds the platform fee percent per product line and when bounty fees
// are collected ("settlement" or "creation").
type Fees struct {
	BountyPercent uint32 `toml:"BountyPercent" yaml:"bountyPercent"`
	GigPercent    uint32 `toml:"GigPercent" yaml:"gigPercent"`
	JobPercent    uint32 `toml:"JobPercent" yaml:"jobPercent"`
	BountyTiming  string `toml:"BountyTiming" yaml:"bountyTiming"`
}

// Bounty captures bounty product rules.
type Bounty struct {
	RequireJudgingDeadline bool `toml:"RequireJudgingDeadline" yaml:"requireJudgingDeadline"`
}

// Escrow names the custody, fee and admin accounts. Empty VaultAddress
// derives a deterministic vault; FeeAccount and Admin seed the platform
// record on first start.
type Escrow struct {
	VaultAddress string `toml:"VaultAddress" yaml:"vaultAddress"`
	FeeAccount   string `toml:"FeeAccount" yaml:"feeAccount"`
	Admin        string `toml:"Admin" yaml:"admin"`
}

// RPC configures the HTTP surface.
type RPC struct {
	ListenAddress      string  `toml:"ListenAddress" yaml:"listenAddress"`
	JWTSecret          string  `toml:"JWTSecret" yaml:"jwtSecret"`
	JWTSecretEnv       string  `toml:"JWTSecretEnv" yaml:"jwtSecretEnv"`
	Issuer             string  `toml:"Issuer" yaml:"issuer"`
	Audience           string  `toml:"Audience" yaml:"audience"`
	RateLimitPerSecond float64 `toml:"RateLimitPerSecond" yaml:"rateLimitPerSecond"`
	RateLimitBurst     int     `toml:"RateLimitBurst" yaml:"rateLimitBurst"`
	ReadTimeoutSeconds uint32  `toml:"ReadTimeoutSeconds" yaml:"readTimeoutSeconds"`
	// TrustProxyHeaders keys anonymous rate limiting on X-Forwarded-For or
	// X-Real-IP from any peer. TrustedProxies limits that to the listed peers.
	TrustProxyHeaders bool     `toml:"TrustProxyHeaders" yaml:"trustProxyHeaders"`
	TrustedProxies    []string `toml:"TrustedProxies" yaml:"trustedProxies"`
}

// Sweeper configures the periodic deadline settlement job.
type Sweeper struct {
	Enabled         bool   `toml:"Enabled" yaml:"enabled"`
	IntervalSeconds uint32 `toml:"IntervalSeconds" yaml:"intervalSeconds"`
}

// Log configures structured logging.
type Log struct {
	Level string `toml:"Level" yaml:"level"`
	// File enables rotating file output in addition to stdout.
	File       string `toml:"File" yaml:"file"`
	MaxSizeMB  int    `toml:"MaxSizeMB" yaml:"maxSizeMB"`
	MaxBackups int    `toml:"MaxBackups" yaml:"maxBackups"`
}

// Telemetry configures OTLP export. Headers is a comma separated k=v list
// sent with every export.
type Telemetry struct {
	Enabled     bool    `toml:"Enabled" yaml:"enabled"`
	Endpoint    string  `toml:"Endpoint" yaml:"endpoint"`
	Insecure    bool    `toml:"Insecure" yaml:"insecure"`
	Headers     string  `toml:"Headers" yaml:"headers"`
	SampleRatio float64 `toml:"SampleRatio" yaml:"sampleRatio"`
}

// EventLog configures the SQL sink for committed events. Driver is "sqlite"
// or "postgres"; an empty driver disables the sink.
type EventLog struct {
	Driver string `toml:"Driver" yaml:"driver"`
	DSN    string `toml:"DSN" yaml:"dsn"`
}

// Pauses toggles mutating operations per module.
type Pauses struct {
	Bounty  bool `toml:"Bounty" yaml:"bounty" json:"bounty"`
	Project bool `toml:"Project" yaml:"project" json:"project"`
}

// IsPaused reports whether module is paused.
func (p Pauses) IsPaused(module string) bool {
	switch module {
	case "bounty":
		return p.Bounty
	case "project":
		return p.Project
	default:
		return false
	}
}

// Token registers a token and its decimals at bootstrap.
type Token struct {
	Symbol   string `toml:"Symbol" yaml:"symbol"`
	Decimals uint32 `toml:"Decimals" yaml:"decimals"`
}

// Allocation credits a base-unit balance at bootstrap. Amount is a decimal
// string so values beyond 64 bits survive the round trip.
type Allocation struct {
	Address string `toml:"Address" yaml:"address"`
	Token   string `toml:"Token" yaml:"token"`
	Amount  string `toml:"Amount" yaml:"amount"`
}
