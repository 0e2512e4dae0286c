// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package config loads process-wide settings from the environment,
// spec.md §6 "Environment configuration". No third-party config loader
// appears anywhere in the retrieved example pack (see DESIGN.md); plain
// os.Getenv plus strconv is the idiomatic choice this corpus exhibits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the fully resolved process configuration.
type Config struct {
	RPCURL      string
	Network     string
	DatabaseURL string
	APIPort     int
	StartHeight int64
	EnableAPI   bool

	Bridge BridgeConfig
	Worker WorkerConfig
}

// BridgeConfig holds the bridge subsystem's settings. Zero value means the
// bridge is disabled.
type BridgeConfig struct {
	Enabled          bool
	BurnAddress      string
	CollectionFile   string
	CollectionName   string
	CollectionSymbol string
	Confirmations    int
}

// WorkerConfig holds the attestation worker's settings. Zero value means
// the worker is disabled.
type WorkerConfig struct {
	Enabled          bool
	DeployerMnemonic string
	ContractAddress  string
	ContractRPCURL   string
	OracleFeeAddress string
	MinFeeSats       int64
}

// Load reads and validates the environment per spec.md §6. Bridge
// activates iff both BRIDGE_BURN_ADDRESS and BRIDGE_COLLECTION_FILE are
// set; the worker activates iff both DEPLOYER_MNEMONIC and
// BRIDGE_CONTRACT_ADDRESS are additionally set.
func Load() (Config, error) {
	cfg := Config{
		RPCURL:      os.Getenv("RPC_URL"),
		Network:     getenvDefault("NETWORK", "mainnet"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableAPI:   true,
	}

	if cfg.RPCURL == "" {
		return Config{}, fmt.Errorf("RPC_URL is required")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	switch cfg.Network {
	case "mainnet", "testnet", "regtest":
	default:
		return Config{}, fmt.Errorf("NETWORK must be one of mainnet|testnet|regtest, got %q", cfg.Network)
	}

	port, err := parseIntEnv("API_PORT", 3002)
	if err != nil {
		return Config{}, err
	}
	cfg.APIPort = port

	startHeight, err := parseInt64Env("START_HEIGHT", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.StartHeight = startHeight

	if raw := os.Getenv("ENABLE_API"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("ENABLE_API must be a boolean, got %q", raw)
		}
		cfg.EnableAPI = enabled
	}

	burnAddress := os.Getenv("BRIDGE_BURN_ADDRESS")
	collectionFile := os.Getenv("BRIDGE_COLLECTION_FILE")
	cfg.Bridge.Enabled = burnAddress != "" && collectionFile != ""
	if cfg.Bridge.Enabled {
		cfg.Bridge.BurnAddress = burnAddress
		cfg.Bridge.CollectionFile = collectionFile
		cfg.Bridge.CollectionName = os.Getenv("BRIDGE_COLLECTION_NAME")
		cfg.Bridge.CollectionSymbol = os.Getenv("BRIDGE_COLLECTION_SYMBOL")

		confirmations, err := parseIntEnv("BRIDGE_CONFIRMATIONS", 6)
		if err != nil {
			return Config{}, err
		}
		cfg.Bridge.Confirmations = confirmations
	}

	deployerMnemonic := os.Getenv("DEPLOYER_MNEMONIC")
	contractAddress := os.Getenv("BRIDGE_CONTRACT_ADDRESS")
	cfg.Worker.Enabled = cfg.Bridge.Enabled && deployerMnemonic != "" && contractAddress != ""
	if cfg.Worker.Enabled {
		cfg.Worker.DeployerMnemonic = deployerMnemonic
		cfg.Worker.ContractAddress = contractAddress
		cfg.Worker.ContractRPCURL = getenvDefault("BRIDGE_CONTRACT_RPC_URL", cfg.RPCURL)
		cfg.Worker.OracleFeeAddress = os.Getenv("ORACLE_FEE_ADDRESS")

		minFeeSats, err := parseInt64Env("BRIDGE_MIN_FEE_SATS", 0)
		if err != nil {
			return Config{}, err
		}
		cfg.Worker.MinFeeSats = minFeeSats
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, raw, err)
	}
	return n, nil
}

func parseInt64Env(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, raw, err)
	}
	return n, nil
}
