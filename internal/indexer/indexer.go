// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ordbridge/internal/address"
	"ordbridge/internal/bridge"
	"ordbridge/internal/envelope"
	"ordbridge/internal/inscriptionid"
	"ordbridge/internal/store"
)

// notFoundBackoff is how long the indexer sleeps after a "block not yet
// produced" response before retrying the same height, spec.md §4.2 step 1.
const notFoundBackoff = 10 * time.Second

// fetchErrorBackoff is the back-off applied to any other fetch error.
const fetchErrorBackoff = 5 * time.Second

// Bridge is the subset of the bridge service IX drives per block. A nil
// Bridge disables the bridge subsystem entirely, per spec.md §4.2 step 4
// ("no-op if bridge is disabled").
type Bridge interface {
	ProcessBurn(outputs []bridge.Output, prevTxID string, prevVout uint32, burnTxID string, burnHeight int64, burnHash string)
	Confirm(currentHeight int64) int
	Reorg(height int64) int
}

// Indexer is IX: the per-block fetch/fork-detect/process/persist/advance
// loop plus reorg handling, spec.md §4.2/§4.3.
type Indexer struct {
	source  BlockSource
	store   *store.InscriptionStore
	bridge  Bridge // nil disables the bridge subsystem.
	network address.Network
	log     *slog.Logger

	currentHeight      int64
	lastBlockHash      string
	inscriptionCounter int64
}

// New constructs an Indexer starting at startHeight. inscriptionCounter is
// seeded from store.Count(), spec.md §4.2 "IX holds ... inscription_counter
// (seeded from IS.count() at startup)".
func New(source BlockSource, ins *store.InscriptionStore, br Bridge, network address.Network, startHeight int64, log *slog.Logger) *Indexer {
	return &Indexer{
		source:             source,
		store:              ins,
		bridge:             br,
		network:            network,
		log:                log,
		currentHeight:      startHeight,
		inscriptionCounter: ins.Count(),
	}
}

// CurrentHeight returns the next height the indexer will fetch.
func (ix *Indexer) CurrentHeight() int64 {
	return ix.currentHeight
}

// Run drives the indexer loop until ctx is cancelled. Shutdown happens at
// the next safe point — before CurrentHeight is advanced — per spec.md §5
// "Cancellation and timeouts".
func (ix *Indexer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ix.log.Info("indexer stopping", "height", ix.currentHeight)
			return
		default:
		}

		if err := ix.step(ctx); err != nil {
			ix.log.Error("indexer step failed", "height", ix.currentHeight, "error", err)
		}
	}
}

// step fetches and processes exactly one block. If the block is not yet
// available it sleeps and returns nil; on any other fetch error it sleeps
// for the shorter back-off and returns the wrapped error.
func (ix *Indexer) step(ctx context.Context) error {
	block, err := ix.source.BlockAtHeight(ix.currentHeight)
	if err != nil {
		if err == ErrBlockNotFound {
			sleep(ctx, notFoundBackoff)
			return nil
		}
		sleep(ctx, fetchErrorBackoff)
		return fmt.Errorf("fetch block %d: %w", ix.currentHeight, err)
	}

	if ix.lastBlockHash != "" && block.PreviousHash != ix.lastBlockHash {
		ix.handleReorg()
		return nil
	}

	ix.processBlock(block)

	ix.lastBlockHash = block.Hash
	ix.currentHeight++
	return nil
}

// processBlock implements spec.md §4.2 step 3-4: decode envelopes, persist
// inscriptions, run burn detection, and sweep confirmations.
func (ix *Indexer) processBlock(block Block) {
	for _, tx := range block.Transactions {
		firstOutputAddr := ""
		if len(tx.Outputs) > 0 {
			firstOutputAddr = address.FromScript(tx.Outputs[0].Script, ix.network)
		}

		localIndex := 0
		for _, in := range tx.Inputs {
			env, ok := envelope.Parse(in.Witness)
			if !ok {
				continue
			}

			id, err := inscriptionid.New(tx.Hash, uint32(localIndex))
			if err != nil {
				ix.log.Warn("skipping envelope with unparsable reveal txid", "tx_hash", tx.Hash, "error", err)
				continue
			}
			localIndex++

			ix.store.Save(store.Inscription{
				ID:                id.String(),
				ContentType:       env.ContentType,
				Content:           env.Body,
				BlockHeight:       ix.currentHeight,
				BlockHash:         block.Hash,
				TxID:              tx.Hash,
				Vout:              0,
				Owner:             firstOutputAddr,
				Timestamp:         block.Time,
				InscriptionNumber: ix.inscriptionCounter,
			})
			ix.inscriptionCounter++
		}

		if ix.bridge != nil {
			ix.processBurn(tx, block.Hash)
		}
	}

	if ix.bridge != nil {
		ix.bridge.Confirm(ix.currentHeight)
	}
}

func (ix *Indexer) processBurn(tx Transaction, blockHash string) {
	if len(tx.Inputs) == 0 {
		return
	}

	outs := make([]bridge.Output, len(tx.Outputs))
	for i, o := range tx.Outputs {
		outs[i] = bridge.Output{Script: o.Script, ValueSats: o.ValueSats}
	}

	prev := tx.Inputs[0]
	ix.bridge.ProcessBurn(outs, prev.PrevTxID, prev.PrevVout, tx.Hash, ix.currentHeight, blockHash)
}

// handleReorg implements spec.md §4.3: rollback IS and BR to the current
// height, reset the inscription counter, and do not advance — the next
// loop iteration re-fetches the same height.
func (ix *Indexer) handleReorg() {
	ix.log.Warn("reorg detected", "height", ix.currentHeight)

	removed := ix.store.DeleteFromHeight(ix.currentHeight)
	ix.inscriptionCounter = ix.store.Count()

	if ix.bridge != nil {
		claimsRemoved := ix.bridge.Reorg(ix.currentHeight)
		ix.log.Info("reorg rollback complete", "inscriptions_removed", removed, "claims_removed", claimsRemoved)
	} else {
		ix.log.Info("reorg rollback complete", "inscriptions_removed", removed)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
