// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package attestation

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"

	"ordbridge/internal/bitcoin"
	"ordbridge/internal/store"
)

// maxBatchSize is MAX_BATCH_SIZE from spec.md §4.5 step 1: the per-cycle
// cap on how many confirmed claims are attempted.
const maxBatchSize = 20

// maxSatsToSpend is the defensive ceiling against runaway fee estimation,
// spec.md §4.5 step d / "Rationale".
const maxSatsToSpend = 100_000

// Bridge is the subset of the bridge service AW drives per cycle.
type Bridge interface {
	ReadyForAttestation() []store.BurnClaim
	MarkFailed(inscriptionID string) error
	MarkAttested(inscriptionID, attestTxID string) error
}

// Worker is AW: one cycle reads BR's confirmed queue, simulates and
// submits a mint call per claim, and marks each claim attested or failed.
// It never throws out of a cycle — every claim's error is isolated,
// spec.md §4.5 "Failure semantics".
type Worker struct {
	bridge    Bridge
	transport Transport
	params    *chaincfg.Params
	log       *slog.Logger
}

// New constructs a Worker bound to a bridge service and contract transport.
func New(bridge Bridge, transport Transport, params *chaincfg.Params, log *slog.Logger) *Worker {
	return &Worker{bridge: bridge, transport: transport, params: params, log: log}
}

// RunCycle processes up to maxBatchSize confirmed claims and returns how
// many were attested. Spec.md §4.5 and the idempotence property: a cycle
// with no confirmed claims returns 0 and makes no transport calls.
func (w *Worker) RunCycle(ctx context.Context) int {
	claims := w.bridge.ReadyForAttestation()
	if len(claims) > maxBatchSize {
		claims = claims[:maxBatchSize]
	}

	var pendingUTXOs []bitcoin.UTXO
	attested := 0

	for _, claim := range claims {
		inscriptionHash := inscriptionHashUint256(claim.InscriptionID)

		witnessProgram, err := senderWitnessProgram(claim.SenderAddress, w.params)
		if err != nil {
			w.log.Error("attestation address decode failed", "inscription_id", claim.InscriptionID, "error", err)
			w.markFailed(claim.InscriptionID)
			continue
		}

		params := TxParams{
			SenderWitnessProgram: witnessProgram,
			InscriptionHash:      inscriptionHash,
			TokenID:              claim.TokenID,
			MaxSatsToSpend:       maxSatsToSpend,
			FeeRate:              0,
			PriorityFee:          0,
			UTXOs:                pendingUTXOs,
		}

		sim, err := w.transport.Simulate(ctx, params)
		if err != nil || sim.Reverted {
			w.log.Error("attestation simulation reverted", "inscription_id", claim.InscriptionID, "reason", sim.Reason, "error", err)
			w.markFailed(claim.InscriptionID)
			continue
		}

		receipt, err := w.transport.Send(ctx, params)
		if err != nil {
			w.log.Error("attestation broadcast failed", "inscription_id", claim.InscriptionID, "error", err)
			w.markFailed(claim.InscriptionID)
			continue
		}

		pendingUTXOs = receipt.NewOutputs

		if err := w.bridge.MarkAttested(claim.InscriptionID, receipt.TxID); err != nil {
			w.log.Error("mark attested failed", "inscription_id", claim.InscriptionID, "error", err)
			continue
		}
		attested++
	}

	return attested
}

func (w *Worker) markFailed(inscriptionID string) {
	if err := w.bridge.MarkFailed(inscriptionID); err != nil {
		w.log.Error("mark failed failed", "inscription_id", inscriptionID, "error", err)
	}
}

// inscriptionHashUint256 computes keccak256(inscription_id) interpreted as
// a 256-bit big-endian unsigned integer, spec.md §4.5 step a.
func inscriptionHashUint256(inscriptionID string) *big.Int {
	hash := crypto.Keccak256([]byte(inscriptionID))
	return new(big.Int).SetBytes(hash)
}
