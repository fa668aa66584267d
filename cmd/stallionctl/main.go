package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"stallion/config"
	"stallion/core/types"
	"stallion/rpc"
)

const (
	tokenCommand  = "issue-token"
	vaultCommand  = "vault"
	defaultConfig = "./config.toml"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case tokenCommand:
		runIssueToken(os.Args[2:])
	case vaultCommand:
		runVault(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func runIssueToken(args []string) {
	fs := flag.NewFlagSet(tokenCommand, flag.ExitOnError)
	configPath := fs.String("config", defaultConfig, "Path to the stallion config file")
	subject := fs.String("caller", "", "Caller address placed in the token subject")
	ttl := fs.Duration("ttl", time.Hour, "Token lifetime")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("load config: %v", err)
	}
	caller, err := types.ParseAddress(*subject)
	if err != nil || caller.IsZero() {
		fail("-caller must be a non-zero hex address")
	}
	secret := cfg.JWTSecret()
	if secret == "" {
		fail("no JWT secret configured (RPC.JWTSecret or RPC.JWTSecretEnv)")
	}
	token, err := rpc.IssueToken(secret, caller, cfg.RPC.Issuer, cfg.RPC.Audience, *ttl)
	if err != nil {
		fail("sign token: %v", err)
	}
	fmt.Println(token)
}

func runVault(args []string) {
	fs := flag.NewFlagSet(vaultCommand, flag.ExitOnError)
	configPath := fs.String("config", defaultConfig, "Path to the stallion config file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("load config: %v", err)
	}
	vault, err := cfg.Vault()
	if err != nil {
		fail("vault: %v", err)
	}
	fmt.Println(vault.Hex())
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: stallionctl <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  %s  Sign a bearer token for a caller address\n", tokenCommand)
	fmt.Fprintf(os.Stderr, "  %s        Print the escrow vault address\n", vaultCommand)
}
