// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package bitcoin holds small shared value types used by the attestation
// worker and its contract transport that do not belong to any single
// subsystem.
package bitcoin

import (
	"math/big"
)

// UTXO describes an unconfirmed output returned by the contract transport's
// receipt after a send. The attestation worker chains these between calls
// within a cycle instead of re-fetching spendable outputs from the chain,
// which would otherwise race against its own not-yet-confirmed broadcasts.
type UTXO struct {
	TxHash  string
	Index   uint32   // output index in the receipt's new-outputs list.
	Amount  *big.Int // in satoshis.
	Script  []byte   // locking script, opaque to the worker.
	Address string   // output recipient address.
}
