// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package bridge implements the bridge service (BR) from spec.md §4.4: burn
// detection against a configured collection, the claim lifecycle state
// machine, confirmation sweeps, retries, and reorg rollback. BS, the
// persisted claim store, lives in internal/store; BR is the business logic
// layered over it.
package bridge

import (
	"errors"
	"fmt"

	"ordbridge/internal/address"
	"ordbridge/internal/collectionregistry"
	"ordbridge/internal/store"
)

// ErrClaimNotFound is returned by Get and mark operations when no claim
// exists for the given inscription id.
var ErrClaimNotFound = errors.New("claim not found")

// Output is the minimal transaction-output shape BR needs from IX: a
// script (for address derivation) and a value in satoshis.
type Output struct {
	Script    []byte
	ValueSats int64
}

// Config holds BR's static configuration, spec.md §4.4.
type Config struct {
	BurnAddress           string
	CollectionName        string
	RequiredConfirmations int
	MinFeeSats            int64
	OracleFeeAddress      string // empty disables the fee check.
	Network               address.Network
}

// Service is BR: burn detection, claim lifecycle, and the read queries
// GET /bridge/* serves.
type Service struct {
	cfg        Config
	claims     *store.ClaimStore
	collection *collectionregistry.Registry
	now        func() int64 // injected for deterministic tests.
}

// New constructs a bridge service bound to a claim store and collection
// registry.
func New(cfg Config, claims *store.ClaimStore, collection *collectionregistry.Registry, now func() int64) *Service {
	return &Service{cfg: cfg, claims: claims, collection: collection, now: now}
}

// ProcessBurn runs burn detection for one transaction, spec.md §4.4 "Burn
// detection". prevTxID/prevVout identify inputs[0]'s previous output, which
// is the basis of the inscription id being burned.
func (s *Service) ProcessBurn(outputs []Output, prevTxID string, prevVout uint32, burnTxID string, burnHeight int64, burnHash string) {
	if len(outputs) == 0 {
		return
	}

	burnOutputAddr := address.FromScript(outputs[0].Script, s.cfg.Network)
	if burnOutputAddr == "" || burnOutputAddr != s.cfg.BurnAddress {
		return
	}

	inscriptionID := fmt.Sprintf("%si%d", prevTxID, prevVout)

	item, ok := s.collection.ByInscriptionID(inscriptionID)
	if !ok {
		return
	}
	if _, exists := s.claims.Get(inscriptionID); exists {
		return
	}

	senderAddress := ""
	var feePaid int64
	if len(outputs) > 1 {
		senderAddress = address.FromScript(outputs[1].Script, s.cfg.Network)
		if s.cfg.OracleFeeAddress != "" && senderAddress == s.cfg.OracleFeeAddress {
			feePaid = outputs[1].ValueSats
		}
	}

	status := store.ClaimDetected
	if s.cfg.MinFeeSats > 0 && feePaid < s.cfg.MinFeeSats {
		status = store.ClaimUnderpaid
	}

	now := s.now()
	s.claims.Insert(store.BurnClaim{
		InscriptionID:   inscriptionID,
		CollectionName:  s.cfg.CollectionName,
		TokenID:         item.TokenID,
		SenderAddress:   senderAddress,
		BurnTxID:        burnTxID,
		BurnBlockHeight: burnHeight,
		BurnBlockHash:   burnHash,
		Status:          status,
		CreatedAtMillis: now,
		UpdatedAtMillis: now,
	})
}

// Confirm sweeps every `detected` claim and promotes it to `confirmed` once
// currentHeight - burn_block_height >= required_confirmations. Returns the
// count promoted. No-op (returns 0) if the bridge is disabled by the caller
// simply not invoking it.
func (s *Service) Confirm(currentHeight int64) int {
	promoted := 0
	for _, claim := range s.claims.ByStatus(store.ClaimDetected) {
		if currentHeight-claim.BurnBlockHeight >= int64(s.cfg.RequiredConfirmations) {
			if s.claims.UpdateStatus(claim.InscriptionID, store.ClaimConfirmed, nil, s.now()) {
				promoted++
			}
		}
	}
	return promoted
}

// RetryFailed flips every `failed` claim back to `confirmed`. Returns the
// count retried.
func (s *Service) RetryFailed() int {
	retried := 0
	for _, claim := range s.claims.ByStatus(store.ClaimFailed) {
		if s.claims.UpdateStatus(claim.InscriptionID, store.ClaimConfirmed, nil, s.now()) {
			retried++
		}
	}
	return retried
}

// Reorg deletes only `detected` claims with burn_block_height >= height,
// spec.md §4.3 step 3. Underpaid/confirmed/attested/failed rows survive.
func (s *Service) Reorg(height int64) int {
	return s.claims.DeleteStatusFromHeight(store.ClaimDetected, height)
}

// MarkAttested transitions a claim to attested with the given on-chain
// transaction id. Spec.md §4.5 step g.
func (s *Service) MarkAttested(inscriptionID, attestTxID string) error {
	if !s.claims.UpdateStatus(inscriptionID, store.ClaimAttested, &attestTxID, s.now()) {
		return ErrClaimNotFound
	}
	return nil
}

// MarkFailed transitions a claim to failed. Spec.md §4.5 steps b/c/e.
func (s *Service) MarkFailed(inscriptionID string) error {
	if !s.claims.UpdateStatus(inscriptionID, store.ClaimFailed, nil, s.now()) {
		return ErrClaimNotFound
	}
	return nil
}

// Get returns a single claim by inscription id.
func (s *Service) Get(inscriptionID string) (store.BurnClaim, error) {
	claim, ok := s.claims.Get(inscriptionID)
	if !ok {
		return store.BurnClaim{}, ErrClaimNotFound
	}
	return claim, nil
}

// BySender returns every claim for a sender address.
func (s *Service) BySender(addr string) []store.BurnClaim {
	return s.claims.BySender(addr)
}

// ReadyForAttestation returns every `confirmed` claim, spec.md §4.4
// "ready_for_attestation() = by_status(confirmed)".
func (s *Service) ReadyForAttestation() []store.BurnClaim {
	return s.claims.ByStatus(store.ClaimConfirmed)
}

// Stats returns the aggregate view GET /bridge/stats serves.
func (s *Service) Stats() store.BridgeStats {
	return store.BridgeStats{
		Total:                 s.claims.Count(),
		ByStatus:              s.claims.CountByStatus(),
		CollectionSize:        s.collection.Size(),
		BurnAddress:           s.cfg.BurnAddress,
		RequiredConfirmations: s.cfg.RequiredConfirmations,
		MinFeeSats:            s.cfg.MinFeeSats,
	}
}

// UnderpaidMessage renders the human-readable explanation spec.md §6
// requires on an underpaid claim's JSON representation.
func UnderpaidMessage(cfg Config) string {
	return fmt.Sprintf("burn fee paid is below the required minimum of %d sats", cfg.MinFeeSats)
}
