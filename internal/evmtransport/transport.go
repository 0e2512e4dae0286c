// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package evmtransport implements attestation.Transport against a real EVM
// contract: simulate via eth_call, submit a signed transaction through
// ethclient. This is the concrete realization of the out-of-scope
// "contract-call transport" collaborator from spec.md §6.
package evmtransport

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"ordbridge/internal/attestation"
)

// attestBurnABI is the minimal interface surface this adapter calls:
// attestBurn(bytes32 sender, uint256 inscriptionHash, uint256 tokenId).
const attestBurnABI = `[{
	"name": "attestBurn",
	"type": "function",
	"inputs": [
		{"name": "sender", "type": "bytes32"},
		{"name": "inscriptionHash", "type": "uint256"},
		{"name": "tokenId", "type": "uint256"}
	],
	"outputs": []
}]`

// Transport submits attestBurn calls against a deployed contract using a
// single deployer signing key, via bind.BoundContract rather than a
// codegen'd contract binding — there is no generated package for this
// ABI, so the call is built directly from the parsed interface.
type Transport struct {
	bound    *bind.BoundContract
	auth     *bind.TransactOpts
	fromAddr common.Address
}

// New connects to an EVM JSON-RPC endpoint and binds the attestBurn call.
func New(ctx context.Context, rpcURL string, contractAddress string, privateKey *ecdsa.PrivateKey) (*Transport, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial evm rpc: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(attestBurnABI))
	if err != nil {
		return nil, fmt.Errorf("parse attestBurn abi: %w", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	contract := common.HexToAddress(contractAddress)
	bound := bind.NewBoundContract(contract, parsedABI, client, client, client)

	return &Transport{bound: bound, auth: auth, fromAddr: auth.From}, nil
}

// Simulate dry-runs attestBurn via eth_call. Any error from the call is
// reported as SimulationResult.Reverted with the error text as Reason, and
// Simulate itself never returns an error: a contract revert and a failure
// of the transport itself are not told apart.
func (t *Transport) Simulate(ctx context.Context, params attestation.TxParams) (attestation.SimulationResult, error) {
	sender, inscriptionHash, tokenID := packAttestBurnArgs(params)

	callOpts := &bind.CallOpts{From: t.fromAddr, Context: ctx}
	var noResults []interface{}
	err := t.bound.Call(callOpts, &noResults, "attestBurn", sender, inscriptionHash, tokenID)
	if err != nil {
		return attestation.SimulationResult{Reverted: true, Reason: err.Error()}, nil
	}

	return attestation.SimulationResult{}, nil
}

// Send builds, signs, and broadcasts the attestBurn transaction.
func (t *Transport) Send(ctx context.Context, params attestation.TxParams) (attestation.Receipt, error) {
	sender, inscriptionHash, tokenID := packAttestBurnArgs(params)

	auth := *t.auth
	auth.Context = ctx
	if params.FeeRate > 0 {
		auth.GasFeeCap = big.NewInt(params.FeeRate)
	}
	if params.PriorityFee > 0 {
		auth.GasTipCap = big.NewInt(params.PriorityFee)
	}

	tx, err := t.bound.Transact(&auth, "attestBurn", sender, inscriptionHash, tokenID)
	if err != nil {
		return attestation.Receipt{}, fmt.Errorf("broadcast attestBurn: %w", err)
	}

	// The EVM side has no concept of chainable Bitcoin-style unconfirmed
	// outputs; NewOutputs is always empty here. UTXO chaining only matters
	// when the transport itself spends Bitcoin UTXOs to pay for the call,
	// which this EVM-native deployer wallet does not.
	return attestation.Receipt{TxID: tx.Hash().Hex()}, nil
}

func packAttestBurnArgs(params attestation.TxParams) ([32]byte, *big.Int, *big.Int) {
	var sender [32]byte
	copy(sender[32-len(params.SenderWitnessProgram):], params.SenderWitnessProgram)
	return sender, params.InscriptionHash, big.NewInt(int64(params.TokenID))
}
