// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Command ordbridge runs the Ordinals indexer and bridge-to-EVM process:
// the inscription indexer (IX), the bridge service (BR) it drives per
// block, the attestation worker (AW) on its own cycle, and the read-only
// HTTP query surface, all inside one process per spec.md §5.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ordbridge/internal/address"
	"ordbridge/internal/attestation"
	"ordbridge/internal/bridge"
	"ordbridge/internal/collectionregistry"
	"ordbridge/internal/config"
	"ordbridge/internal/deployerkey"
	"ordbridge/internal/evmtransport"
	"ordbridge/internal/httpapi"
	"ordbridge/internal/indexer"
	"ordbridge/internal/logging"
	"ordbridge/internal/rpcsource"
	"ordbridge/internal/store"
)

// attestationCycleInterval is how often AW wakes up to sweep confirmed
// claims, spec.md §5 "periodic".
const attestationCycleInterval = 30 * time.Second

func main() {
	log := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("ordbridge exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	network := address.Network(cfg.Network)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Info("shutdown signal received, draining")
		cancel()
	}()

	inscriptions := store.NewInscriptionStore()
	claims := store.NewClaimStore()

	var br *bridge.Service
	var bridgeCfg bridge.Config
	var collection *collectionregistry.Registry
	if cfg.Bridge.Enabled {
		f, err := os.Open(cfg.Bridge.CollectionFile)
		if err != nil {
			return fmt.Errorf("open collection file: %w", err)
		}
		collection, err = collectionregistry.Load(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load collection file: %w", err)
		}

		bridgeCfg = bridge.Config{
			BurnAddress:           cfg.Bridge.BurnAddress,
			CollectionName:        cfg.Bridge.CollectionName,
			RequiredConfirmations: cfg.Bridge.Confirmations,
			MinFeeSats:            cfg.Worker.MinFeeSats,
			OracleFeeAddress:      cfg.Worker.OracleFeeAddress,
			Network:               network,
		}
		br = bridge.New(bridgeCfg, claims, collection, func() int64 { return time.Now().UnixMilli() })

		log.Info("bridge subsystem enabled", "collection_size", collection.Size())
	}

	source, err := rpcsource.New(cfg.RPCURL, os.Getenv("RPC_USER"), os.Getenv("RPC_PASSWORD"), network != address.Mainnet)
	if err != nil {
		return fmt.Errorf("connect block source: %w", err)
	}
	defer source.Close()

	// indexer.Bridge must stay a nil interface (not a non-nil interface
	// wrapping a nil *bridge.Service) when the bridge subsystem is
	// disabled, so the indexer's own nil check behaves correctly.
	var indexerBridge indexer.Bridge
	if br != nil {
		indexerBridge = br
	}
	ix := indexer.New(source, inscriptions, indexerBridge, network, cfg.StartHeight, log)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ix.Run(ctx)
	}()

	if cfg.Worker.Enabled {
		worker, err := buildWorker(ctx, cfg, network, br, log)
		if err != nil {
			return fmt.Errorf("build attestation worker: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			runAttestationLoop(ctx, worker, log)
		}()
	}

	if cfg.EnableAPI {
		server := httpapi.New(inscriptions, httpAPIBridge(br), bridgeCfg, collection, log)
		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.APIPort),
			Handler: server.Router(),
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			httpSrv.Shutdown(shutdownCtx)
		}()

		log.Info("http api listening", "port", cfg.APIPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cancel()
			wg.Wait()
			return fmt.Errorf("http server: %w", err)
		}
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

// httpAPIBridge avoids handing httpapi.New a non-nil interface wrapping a
// nil *bridge.Service when the bridge subsystem is disabled.
func httpAPIBridge(br *bridge.Service) httpapi.Bridge {
	if br == nil {
		return nil
	}
	return br
}

// buildWorker derives the deployer signing key from the mnemonic and wires
// it into an EVM contract transport, per spec.md §4.5 / §6.
func buildWorker(ctx context.Context, cfg config.Config, network address.Network, br *bridge.Service, log *slog.Logger) (*attestation.Worker, error) {
	key, err := deployerkey.Derive(cfg.Worker.DeployerMnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("derive deployer key: %w", err)
	}

	transport, err := evmtransport.New(ctx, cfg.Worker.ContractRPCURL, cfg.Worker.ContractAddress, key)
	if err != nil {
		return nil, fmt.Errorf("build evm transport: %w", err)
	}

	return attestation.New(br, transport, network.Params(), log), nil
}

// runAttestationLoop drives AW on a fixed cycle until ctx is cancelled,
// draining any in-flight cycle before returning, spec.md §5.
func runAttestationLoop(ctx context.Context, worker *attestation.Worker, log *slog.Logger) {
	ticker := time.NewTicker(attestationCycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := worker.RunCycle(ctx)
			if n > 0 {
				log.Info("attestation cycle complete", "attested", n)
			}
		}
	}
}
