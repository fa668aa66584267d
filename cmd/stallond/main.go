package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stallion/config"
	"stallion/core"
	"stallion/core/events"
	corestate "stallion/core/state"
	"stallion/native/bounty"
	"stallion/observability"
	"stallion/observability/eventlog"
	"stallion/observability/logging"
	"stallion/observability/metrics"
	telemetry "stallion/observability/otel"
	"stallion/rpc"
	"stallion/services/sweeper"
	"stallion/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file (.toml or .yaml)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "stallond: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser := logging.SetupWithOptions("stallond", cfg.Environment, logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: "stallond",
		Environment: cfg.Environment,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Headers:     telemetry.ParseHeaders(cfg.Telemetry.Headers),
		SampleRatio: cfg.Telemetry.SampleRatio,
		Metrics:     true,
		Traces:      true,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	db, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	emitters := events.Multi{observability.Events()}
	var eventStore *eventlog.Store
	if cfg.EventLog.Driver != "" {
		gdb, err := eventlog.Open(cfg.EventLog.Driver, cfg.EventLog.DSN)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		eventStore, err = eventlog.NewStore(gdb)
		if err != nil {
			return err
		}
		emitters = append(emitters, eventStore)
		logger.Info("event log open", slog.String("driver", cfg.EventLog.Driver), slog.String("location", logging.MaskDSN(cfg.EventLog.DSN)))
	}

	vault, err := cfg.Vault()
	if err != nil {
		return err
	}
	escrowMetrics := metrics.Escrow()
	node, err := core.NewNode(db, core.Options{
		Bounty:   bounty.Config{RequireJudgingDeadline: cfg.Bounty.RequireJudgingDeadline},
		Schedule: cfg.FeeSchedule(),
		Vault:    vault,
		Emitter:  emitters,
		Logger:   logger,
		Metrics:  escrowMetrics,
	})
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}

	bootstrap, err := bootstrapParams(cfg)
	if err != nil {
		return err
	}
	if err := node.Bootstrap(ctx, bootstrap); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	logger.Info("node ready", slog.String("vault", node.Vault().Hex()), slog.String("storage", cfg.Storage.Backend))

	if cfg.Sweeper.Enabled {
		sw, err := sweeper.New(node, time.Duration(cfg.Sweeper.IntervalSeconds)*time.Second, logger, escrowMetrics)
		if err != nil {
			return err
		}
		if err := sw.Start(); err != nil {
			return fmt.Errorf("start sweeper: %w", err)
		}
		defer func() {
			if err := sw.Stop(); err != nil {
				logger.Warn("sweeper shutdown failed", slog.Any("error", err))
			}
		}()
	}

	serverCfg := rpc.ServerConfig{
		Backend: node,
		Auth: rpc.AuthConfig{
			HMACSecret: cfg.JWTSecret(),
			Issuer:     cfg.RPC.Issuer,
			Audience:   cfg.RPC.Audience,
		},
		RateLimit: rpc.RateLimit{
			PerSecond:         cfg.RPC.RateLimitPerSecond,
			Burst:             cfg.RPC.RateLimitBurst,
			TrustProxyHeaders: cfg.RPC.TrustProxyHeaders,
			TrustedProxies:    cfg.RPC.TrustedProxies,
		},
		Logger: logger,
	}
	if eventStore != nil {
		serverCfg.Events = eventStore
	}
	server, err := rpc.NewServer(serverCfg)
	if err != nil {
		return err
	}
	if cfg.JWTSecret() == "" {
		logger.Warn("no JWT secret configured; mutating routes will reject every request")
	}

	httpServer := &http.Server{
		Addr:              cfg.RPC.ListenAddress,
		Handler:           server,
		ReadHeaderTimeout: time.Duration(cfg.RPC.ReadTimeoutSeconds) * time.Second,
		ReadTimeout:       time.Duration(cfg.RPC.ReadTimeoutSeconds) * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("rpc listening", slog.String("address", cfg.RPC.ListenAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("rpc server: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func bootstrapParams(cfg *config.Config) (core.BootstrapParams, error) {
	p := core.BootstrapParams{Pauses: cfg.Pauses}
	for _, tok := range cfg.Tokens {
		p.Tokens = append(p.Tokens, corestate.TokenMetadata{Symbol: tok.Symbol, Decimals: tok.Decimals})
	}
	for i, raw := range cfg.Allocations {
		alloc, err := raw.Parse()
		if err != nil {
			return p, fmt.Errorf("allocation %d: %w", i, err)
		}
		p.Allocations = append(p.Allocations, core.Allocation{Address: alloc.Address, Token: alloc.Token, Amount: alloc.Amount})
	}
	var err error
	if p.Admin, err = config.OptionalAddress(cfg.Escrow.Admin); err != nil {
		return p, fmt.Errorf("admin: %w", err)
	}
	if p.FeeAccount, err = config.OptionalAddress(cfg.Escrow.FeeAccount); err != nil {
		return p, fmt.Errorf("fee account: %w", err)
	}
	return p, nil
}
