// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package inscriptionid implements the inscription identifier: a reveal
// transaction id paired with the local index of the envelope within that
// transaction's witness data, serialized as "<txid>i<index>".
package inscriptionid

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// idSeparator defines the separator between TxID and Index in an inscription ID.
const idSeparator string = "i"

// ID describes an inscription identifier.
type ID struct {
	TxID  *chainhash.Hash // reveal transaction id.
	Index uint32          // local index of the envelope within the transaction.
}

// New builds an ID directly from a transaction hash string and index, as
// produced by the indexer for every envelope found in a transaction.
func New(txid string, index uint32) (*ID, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, err
	}

	return &ID{TxID: hash, Index: index}, nil
}

// NewFromString parses an inscription ID from its string form.
func NewFromString(idStr string) (*ID, error) {
	parts := strings.Split(idStr, idSeparator)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid ID format: %s", idStr)
	}

	if len(parts[0]) != chainhash.MaxHashStringSize {
		return nil, fmt.Errorf("invalid TxID format: %s", idStr)
	}

	txID, err := chainhash.NewHashFromStr(parts[0])
	if err != nil {
		return nil, err
	}

	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, err
	}

	return &ID{TxID: txID, Index: uint32(index)}, nil
}

// NewFromDataPush parses an inscription ID from a script data push, as used
// for the `parent` and `delegate` envelope tags: a 32-byte txid followed by
// an optional little-endian index with trailing zero bytes omitted.
func NewFromDataPush(id []byte) (*ID, error) {
	if len(id) < chainhash.HashSize || len(id) > chainhash.HashSize+4 {
		return nil, fmt.Errorf("invalid TxID format: %x", id)
	}

	txID, err := chainhash.NewHash(id[:chainhash.HashSize])
	if err != nil {
		return nil, err
	}

	var index = make([]byte, 4)
	copy(index, id[chainhash.HashSize:])

	return &ID{TxID: txID, Index: binary.LittleEndian.Uint32(index)}, nil
}

// String returns the inscription ID as "<txid>i<index>".
func (id *ID) String() string {
	return fmt.Sprintf("%s%s%d", id.TxID.String(), idSeparator, id.Index)
}
