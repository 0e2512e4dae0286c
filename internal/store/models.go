// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package store implements the inscription store (IS) and bridge store (BS)
// persisted-state layout from spec.md §6 against an in-process, mutex-
// guarded representation (see DESIGN.md for why this substitutes for a real
// SQL engine here). Every operation is safe for concurrent use and mirrors
// the idempotency and atomicity guarantees spec.md §4.2/§4.4 require.
package store

import "errors"

// ErrNotFound is the sentinel for a missing row. The stores' own Get
// methods report a missing row with a false ok value, not with this error.
var ErrNotFound = errors.New("not found")

// ClaimStatus is the bridge claim lifecycle state, spec.md §3/§4.4.
type ClaimStatus string

const (
	ClaimDetected  ClaimStatus = "detected"
	ClaimUnderpaid ClaimStatus = "underpaid"
	ClaimConfirmed ClaimStatus = "confirmed"
	ClaimAttested  ClaimStatus = "attested"
	ClaimFailed    ClaimStatus = "failed"
)

// Inscription is the persisted row for one decoded envelope. Never mutated
// after insertion; destroyed only by reorg rollback.
type Inscription struct {
	ID                string
	ContentType       string
	Content           []byte
	BlockHeight       int64
	BlockHash         string
	TxID              string
	Vout              uint32
	Owner             string
	Timestamp         int64
	InscriptionNumber int64
}

// ContentTypeHistogramEntry is one bucket of the /stats content-type histogram.
type ContentTypeHistogramEntry struct {
	ContentType string
	Count       int64
}

// InscriptionStats is the aggregate view spec.md §4.2 "stats()" describes.
type InscriptionStats struct {
	Total             int64
	DistinctOwners    int64
	ContentTypeCounts []ContentTypeHistogramEntry
}

// BurnClaim is the persisted bridge claim row, spec.md §3.
type BurnClaim struct {
	InscriptionID   string
	CollectionName  string
	TokenID         int
	SenderAddress   string
	BurnTxID        string
	BurnBlockHeight int64
	BurnBlockHash   string
	Status          ClaimStatus
	AttestTxID      *string
	CreatedAtMillis int64
	UpdatedAtMillis int64
}

// BridgeStats is the aggregate view exposed by GET /bridge/stats.
type BridgeStats struct {
	Total                 int64
	ByStatus              map[ClaimStatus]int64
	CollectionSize        int
	BurnAddress           string
	RequiredConfirmations int
	MinFeeSats            int64
}
