// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package attestation implements the attestation worker (AW) from spec.md
// §4.5: turning confirmed bridge claims into on-chain mint calls, with a
// strict per-cycle batch cap and chained unconfirmed outputs.
package attestation

import (
	"context"
	"math/big"

	"ordbridge/internal/bitcoin"
)

// SimulationResult is the outcome of a dry-run contract call.
type SimulationResult struct {
	Reverted bool
	Reason   string
}

// Receipt is what a successful broadcast returns: the contract transport's
// response, spec.md §6 "Contract transport".
type Receipt struct {
	TxID       string
	NewOutputs []bitcoin.UTXO // usable as inputs for the next call in this cycle.
}

// TxParams are the parameters AW hands the transport for a mint call,
// spec.md §4.5 step d.
type TxParams struct {
	SenderWitnessProgram []byte
	InscriptionHash      *big.Int
	TokenID              int
	MaxSatsToSpend       int64
	FeeRate              int64
	PriorityFee          int64
	UTXOs                []bitcoin.UTXO
}

// Transport is the out-of-scope contract-call transport collaborator,
// spec.md §6: "builds, signs, broadcasts, returns a receipt". AW never
// constructs or signs a transaction itself — it hands the transport fully
// formed parameters and trusts the transport's simulate/send contract.
type Transport interface {
	Simulate(ctx context.Context, params TxParams) (SimulationResult, error)
	Send(ctx context.Context, params TxParams) (Receipt, error)
}
