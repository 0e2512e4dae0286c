// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package rpcsource implements indexer.BlockSource against a real Bitcoin
// node over RPC, the concrete realization of the out-of-scope "blockchain
// RPC client" collaborator from spec.md §6.
package rpcsource

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/rpcclient"

	"ordbridge/internal/indexer"
)

// Source adapts rpcclient.Client's getblock/getblockhash RPCs to
// indexer.BlockSource's by-height fetch contract.
type Source struct {
	client *rpcclient.Client
}

// New dials a Bitcoin Core-compatible RPC endpoint.
func New(host, user, pass string, disableTLS bool) (*Source, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         host,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   disableTLS,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to bitcoin rpc: %w", err)
	}
	return &Source{client: client}, nil
}

// Close releases the underlying RPC connection.
func (s *Source) Close() {
	s.client.Shutdown()
}

// BlockAtHeight implements indexer.BlockSource. A height past the current
// tip maps to indexer.ErrBlockNotFound, spec.md §4.2 step 1.
func (s *Source) BlockAtHeight(height int64) (indexer.Block, error) {
	hash, err := s.client.GetBlockHash(height)
	if err != nil {
		if isBlockNotFoundErr(err) {
			return indexer.Block{}, indexer.ErrBlockNotFound
		}
		return indexer.Block{}, fmt.Errorf("get block hash at height %d: %w", height, err)
	}

	verbose, err := s.client.GetBlockVerboseTx(hash)
	if err != nil {
		return indexer.Block{}, fmt.Errorf("get block %s: %w", hash, err)
	}

	return convertBlock(verbose), nil
}

func convertBlock(verbose *btcjson.GetBlockVerboseTxResult) indexer.Block {
	txs := make([]indexer.Transaction, len(verbose.Tx))
	for i, tx := range verbose.Tx {
		txs[i] = convertTransaction(tx)
	}

	return indexer.Block{
		Hash:         verbose.Hash,
		PreviousHash: verbose.PreviousHash,
		Time:         verbose.Time,
		Transactions: txs,
	}
}

func convertTransaction(tx btcjson.TxRawResult) indexer.Transaction {
	inputs := make([]indexer.Input, len(tx.Vin))
	for i, vin := range tx.Vin {
		witness := make([][]byte, 0, len(vin.Witness))
		for _, item := range vin.Witness {
			b, err := hex.DecodeString(item)
			if err == nil {
				witness = append(witness, b)
			}
		}
		inputs[i] = indexer.Input{
			PrevTxID: vin.Txid,
			PrevVout: vin.Vout,
			Witness:  witness,
		}
	}

	outputs := make([]indexer.Output, len(tx.Vout))
	for i, vout := range tx.Vout {
		script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
		if err != nil {
			script = nil
		}
		outputs[i] = indexer.Output{
			Script:    script,
			ValueSats: satsFromBTC(vout.Value),
		}
	}

	return indexer.Transaction{
		Hash:    tx.Txid,
		Inputs:  inputs,
		Outputs: outputs,
	}
}

func satsFromBTC(btc float64) int64 {
	return int64(btc*1e8 + 0.5)
}

// isBlockNotFoundErr reports whether err is the getblockhash response for a
// height beyond the current chain tip. Bitcoin Core returns RPC_INVALID_PARAMETER
// for this case, not a dedicated "not found" code.
func isBlockNotFoundErr(err error) bool {
	rpcErr, ok := err.(*btcjson.RPCError)
	if !ok {
		return false
	}
	return rpcErr.Code == btcjson.ErrRPCInvalidParameter
}
