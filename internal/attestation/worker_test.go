// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package attestation_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"

	"ordbridge/internal/attestation"
	"ordbridge/internal/bitcoin"
	"ordbridge/internal/store"
)

type fakeBridge struct {
	ready    []store.BurnClaim
	attested map[string]string
	failed   map[string]bool
}

func newFakeBridge(claims ...store.BurnClaim) *fakeBridge {
	return &fakeBridge{ready: claims, attested: map[string]string{}, failed: map[string]bool{}}
}

func (f *fakeBridge) ReadyForAttestation() []store.BurnClaim { return f.ready }

func (f *fakeBridge) MarkFailed(id string) error {
	f.failed[id] = true
	return nil
}

func (f *fakeBridge) MarkAttested(id, txID string) error {
	f.attested[id] = txID
	return nil
}

type fakeTransport struct {
	revert        bool
	sendErr       error
	newOutputs    []bitcoin.UTXO
	simulateErr   error
	sentUTXOArgs  [][]bitcoin.UTXO
	simulateCalls int
}

func (f *fakeTransport) Simulate(ctx context.Context, params attestation.TxParams) (attestation.SimulationResult, error) {
	f.simulateCalls++
	return attestation.SimulationResult{Reverted: f.revert}, f.simulateErr
}

func (f *fakeTransport) Send(ctx context.Context, params attestation.TxParams) (attestation.Receipt, error) {
	f.sentUTXOArgs = append(f.sentUTXOArgs, params.UTXOs)
	if f.sendErr != nil {
		return attestation.Receipt{}, f.sendErr
	}
	return attestation.Receipt{TxID: "0xT", NewOutputs: f.newOutputs}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const taprootSender = "bc1p5d7rjq7g6rdk2yhzks9smlaqtedr4dekq08ge8ztwac72sfr9rusxg3297"

func TestRunCycle_HappyPath(t *testing.T) {
	claim := store.BurnClaim{InscriptionID: "a", SenderAddress: taprootSender, TokenID: 1}
	bridge := newFakeBridge(claim)
	transport := &fakeTransport{}

	w := attestation.New(bridge, transport, &chaincfg.MainNetParams, testLogger())
	attested := w.RunCycle(context.Background())

	require.Equal(t, 1, attested)
	require.Equal(t, "0xT", bridge.attested["a"])
	require.Empty(t, bridge.failed)
}

func TestRunCycle_NonTaprootSenderFails(t *testing.T) {
	claim := store.BurnClaim{InscriptionID: "a", SenderAddress: "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", TokenID: 1}
	bridge := newFakeBridge(claim)
	transport := &fakeTransport{}

	w := attestation.New(bridge, transport, &chaincfg.MainNetParams, testLogger())
	attested := w.RunCycle(context.Background())

	require.Equal(t, 0, attested)
	require.True(t, bridge.failed["a"])
}

func TestRunCycle_SimulationRevertMarksFailed(t *testing.T) {
	claim := store.BurnClaim{InscriptionID: "a", SenderAddress: taprootSender, TokenID: 1}
	bridge := newFakeBridge(claim)
	transport := &fakeTransport{revert: true}

	w := attestation.New(bridge, transport, &chaincfg.MainNetParams, testLogger())
	attested := w.RunCycle(context.Background())

	require.Equal(t, 0, attested)
	require.True(t, bridge.failed["a"])
}

func TestRunCycle_BroadcastErrorMarksFailed(t *testing.T) {
	claim := store.BurnClaim{InscriptionID: "a", SenderAddress: taprootSender, TokenID: 1}
	bridge := newFakeBridge(claim)
	transport := &fakeTransport{sendErr: context.DeadlineExceeded}

	w := attestation.New(bridge, transport, &chaincfg.MainNetParams, testLogger())
	attested := w.RunCycle(context.Background())

	require.Equal(t, 0, attested)
	require.True(t, bridge.failed["a"])
}

func TestRunCycle_NoConfirmedClaimsMakesNoCalls(t *testing.T) {
	bridge := newFakeBridge()
	transport := &fakeTransport{}

	w := attestation.New(bridge, transport, &chaincfg.MainNetParams, testLogger())
	attested := w.RunCycle(context.Background())

	require.Equal(t, 0, attested)
	require.Zero(t, transport.simulateCalls)
	require.Empty(t, transport.sentUTXOArgs)
}

func TestRunCycle_BatchCapIsTwenty(t *testing.T) {
	claims := make([]store.BurnClaim, 25)
	for i := range claims {
		claims[i] = store.BurnClaim{InscriptionID: string(rune('a' + i)), SenderAddress: taprootSender}
	}
	bridge := newFakeBridge(claims...)
	transport := &fakeTransport{}

	w := attestation.New(bridge, transport, &chaincfg.MainNetParams, testLogger())
	attested := w.RunCycle(context.Background())

	require.Equal(t, 20, attested)
}

func TestRunCycle_ChainsUTXOsBetweenCalls(t *testing.T) {
	claims := []store.BurnClaim{
		{InscriptionID: "a", SenderAddress: taprootSender},
		{InscriptionID: "b", SenderAddress: taprootSender},
	}
	bridge := newFakeBridge(claims...)
	transport := &fakeTransport{newOutputs: []bitcoin.UTXO{{TxHash: "t", Index: 0}}}

	w := attestation.New(bridge, transport, &chaincfg.MainNetParams, testLogger())
	attested := w.RunCycle(context.Background())

	require.Equal(t, 2, attested)
	require.Empty(t, transport.sentUTXOArgs[0])
	require.Equal(t, transport.newOutputs, transport.sentUTXOArgs[1])
}
