// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package bridge_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ordbridge/internal/address"
	"ordbridge/internal/bridge"
	"ordbridge/internal/collectionregistry"
	"ordbridge/internal/store"
)

func burnAddrScript() []byte {
	return append([]byte{0x00, 0x14}, bytes.Repeat([]byte{0x01}, 20)...)
}

func senderScript() []byte {
	return append([]byte{0x00, 0x14}, bytes.Repeat([]byte{0x02}, 20)...)
}

func feeScript() []byte {
	return append([]byte{0x00, 0x14}, bytes.Repeat([]byte{0x03}, 20)...)
}

func newTestService(t *testing.T, cfg bridge.Config, clock *int64) (*bridge.Service, *store.ClaimStore) {
	t.Helper()

	reg, err := collectionregistry.Load(strings.NewReader(`[{"id":"tx1i0","meta":{}}]`))
	require.NoError(t, err)

	claims := store.NewClaimStore()
	svc := bridge.New(cfg, claims, reg, func() int64 { return *clock })
	return svc, claims
}

func baseConfig() bridge.Config {
	burnAddr := address.FromScript(burnAddrScript(), address.Mainnet)
	return bridge.Config{
		BurnAddress:           burnAddr,
		CollectionName:        "test-collection",
		RequiredConfirmations: 6,
		Network:               address.Mainnet,
	}
}

func TestProcessBurn_HappyPath(t *testing.T) {
	clock := int64(1000)
	cfg := baseConfig()
	svc, _ := newTestService(t, cfg, &clock)

	outputs := []bridge.Output{
		{Script: burnAddrScript(), ValueSats: 0},
		{Script: senderScript(), ValueSats: 0},
	}
	svc.ProcessBurn(outputs, "tx1", 0, "burntx", 100, "hash100")

	claim, err := svc.Get("tx1i0")
	require.NoError(t, err)
	require.Equal(t, store.ClaimDetected, claim.Status)
	require.Equal(t, 0, claim.TokenID)
	require.Equal(t, "hash100", claim.BurnBlockHash)

	promoted := svc.Confirm(106)
	require.Equal(t, 1, promoted)

	claim, _ = svc.Get("tx1i0")
	require.Equal(t, store.ClaimConfirmed, claim.Status)

	ready := svc.ReadyForAttestation()
	require.Len(t, ready, 1)

	require.NoError(t, svc.MarkAttested("tx1i0", "T"))
	claim, _ = svc.Get("tx1i0")
	require.Equal(t, store.ClaimAttested, claim.Status)
	require.Equal(t, "T", *claim.AttestTxID)
}

func TestProcessBurn_UnderpaidPath(t *testing.T) {
	clock := int64(1000)
	cfg := baseConfig()
	cfg.MinFeeSats = 10_000
	cfg.OracleFeeAddress = address.FromScript(feeScript(), address.Mainnet)
	svc, _ := newTestService(t, cfg, &clock)

	outputs := []bridge.Output{
		{Script: burnAddrScript(), ValueSats: 0},
		{Script: feeScript(), ValueSats: 5_000},
	}
	svc.ProcessBurn(outputs, "tx1", 0, "burntx", 100, "hash100")

	claim, err := svc.Get("tx1i0")
	require.NoError(t, err)
	require.Equal(t, store.ClaimUnderpaid, claim.Status)

	promoted := svc.Confirm(1_000_000)
	require.Equal(t, 0, promoted)

	require.Empty(t, svc.ReadyForAttestation())
}

func TestProcessBurn_RejectsUnknownInscription(t *testing.T) {
	clock := int64(1000)
	cfg := baseConfig()
	svc, claims := newTestService(t, cfg, &clock)

	outputs := []bridge.Output{{Script: burnAddrScript()}}
	svc.ProcessBurn(outputs, "unknown-tx", 0, "burntx", 100, "hash100")

	require.Equal(t, int64(0), claims.Count())
}

func TestProcessBurn_RejectsDuplicateClaim(t *testing.T) {
	clock := int64(1000)
	cfg := baseConfig()
	svc, claims := newTestService(t, cfg, &clock)

	outputs := []bridge.Output{{Script: burnAddrScript()}}
	svc.ProcessBurn(outputs, "tx1", 0, "burntx", 100, "hash100")
	svc.ProcessBurn(outputs, "tx1", 0, "burntx2", 101, "hash101")

	require.Equal(t, int64(1), claims.Count())
}

func TestReorg_PreservesCommittedState(t *testing.T) {
	clock := int64(1000)
	cfg := baseConfig()
	svc, claims := newTestService(t, cfg, &clock)

	claims.Insert(store.BurnClaim{InscriptionID: "a", Status: store.ClaimDetected, BurnBlockHeight: 110})
	claims.Insert(store.BurnClaim{InscriptionID: "b", Status: store.ClaimAttested, BurnBlockHeight: 108})

	removed := svc.Reorg(109)
	require.Equal(t, 1, removed)

	_, err := svc.Get("a")
	require.ErrorIs(t, err, bridge.ErrClaimNotFound)

	claim, err := svc.Get("b")
	require.NoError(t, err)
	require.Equal(t, store.ClaimAttested, claim.Status)
}

func TestRetryLifecycle(t *testing.T) {
	clock := int64(1000)
	cfg := baseConfig()
	svc, claims := newTestService(t, cfg, &clock)

	claims.Insert(store.BurnClaim{InscriptionID: "a", Status: store.ClaimDetected, BurnBlockHeight: 100})

	require.Equal(t, 1, svc.Confirm(106))

	require.NoError(t, svc.MarkFailed("a"))
	claim, _ := svc.Get("a")
	require.Equal(t, store.ClaimFailed, claim.Status)

	require.Equal(t, 1, svc.RetryFailed())
	claim, _ = svc.Get("a")
	require.Equal(t, store.ClaimConfirmed, claim.Status)

	require.NoError(t, svc.MarkAttested("a", "T2"))
	claim, _ = svc.Get("a")
	require.Equal(t, store.ClaimAttested, claim.Status)
}

func TestStats(t *testing.T) {
	clock := int64(1000)
	cfg := baseConfig()
	cfg.MinFeeSats = 500
	svc, claims := newTestService(t, cfg, &clock)

	claims.Insert(store.BurnClaim{InscriptionID: "a", Status: store.ClaimDetected})
	claims.Insert(store.BurnClaim{InscriptionID: "b", Status: store.ClaimConfirmed})

	stats := svc.Stats()
	require.Equal(t, int64(2), stats.Total)
	require.Equal(t, 1, stats.CollectionSize)
	require.Equal(t, int64(500), stats.MinFeeSats)
	require.Equal(t, 6, stats.RequiredConfirmations)
}

func TestUnderpaidMessage(t *testing.T) {
	cfg := baseConfig()
	cfg.MinFeeSats = 10_000
	msg := bridge.UnderpaidMessage(cfg)
	require.Contains(t, msg, "10000")
}
