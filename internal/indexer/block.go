// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package indexer implements the block ingestion and reorganization-safe
// indexing pipeline (IX) from spec.md §4.2/§4.3: fetch, detect fork,
// process transactions, persist, advance.
package indexer

import "errors"

// ErrBlockNotFound is returned by a BlockSource when the requested height
// has not been produced yet. The indexer treats this as "wait and retry",
// distinct from any other fetch error.
var ErrBlockNotFound = errors.New("block not found")

// Input is one transaction input: the previous output it spends and the
// witness stack OE scans for an envelope.
type Input struct {
	PrevTxID string
	PrevVout uint32
	Witness  [][]byte
}

// Output is one transaction output.
type Output struct {
	Script    []byte
	ValueSats int64
}

// Transaction is one block transaction as the block source reports it.
type Transaction struct {
	Hash    string
	Inputs  []Input
	Outputs []Output
}

// Block is a fetched block with its transactions, spec.md §6 "Block source".
type Block struct {
	Hash         string
	PreviousHash string
	Time         int64
	Transactions []Transaction
}

// BlockSource is the out-of-scope blockchain RPC client collaborator,
// spec.md §6: fetch is by integer height, and a missing block is a typed
// error so the indexer can distinguish "not yet produced" from a real
// fetch failure.
type BlockSource interface {
	BlockAtHeight(height int64) (Block, error)
}
