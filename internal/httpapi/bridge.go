// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ordbridge/internal/bridge"
	"ordbridge/internal/store"
)

type claimResponse struct {
	InscriptionID   string  `json:"inscription_id"`
	CollectionName  string  `json:"collection_name"`
	TokenID         int     `json:"token_id"`
	SenderAddress   string  `json:"sender_address"`
	BurnTxID        string  `json:"burn_txid"`
	BurnBlockHeight int64   `json:"burn_block_height"`
	BurnBlockHash   string  `json:"burn_block_hash"`
	Status          string  `json:"status"`
	AttestTxID      *string `json:"attest_txid,omitempty"`
	CreatedAt       int64   `json:"created_at"`
	UpdatedAt       int64   `json:"updated_at"`
	Message         string  `json:"message,omitempty"`
}

func (s *Server) toClaimResponse(claim store.BurnClaim) claimResponse {
	resp := claimResponse{
		InscriptionID:   claim.InscriptionID,
		CollectionName:  claim.CollectionName,
		TokenID:         claim.TokenID,
		SenderAddress:   claim.SenderAddress,
		BurnTxID:        claim.BurnTxID,
		BurnBlockHeight: claim.BurnBlockHeight,
		BurnBlockHash:   claim.BurnBlockHash,
		Status:          string(claim.Status),
		AttestTxID:      claim.AttestTxID,
		CreatedAt:       claim.CreatedAtMillis,
		UpdatedAt:       claim.UpdatedAtMillis,
	}
	if claim.Status == store.ClaimUnderpaid {
		resp.Message = bridge.UnderpaidMessage(s.bridgeCfg)
	}
	return resp
}

func (s *Server) handleBridgeStats(c *gin.Context) {
	if !s.bridgeEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "bridge is not enabled"})
		return
	}

	stats := s.bridge.Stats()
	byStatus := make(map[string]int64, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"total":                  stats.Total,
		"by_status":              byStatus,
		"collection_size":        stats.CollectionSize,
		"burn_address":           stats.BurnAddress,
		"required_confirmations": stats.RequiredConfirmations,
		"min_fee_sats":           stats.MinFeeSats,
	})
}

func (s *Server) handleBridgeClaim(c *gin.Context) {
	if !s.bridgeEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "bridge is not enabled"})
		return
	}

	claim, err := s.bridge.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, bridge.ErrClaimNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, s.toClaimResponse(claim))
}

func (s *Server) handleBridgeClaimsBySender(c *gin.Context) {
	if !s.bridgeEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "bridge is not enabled"})
		return
	}

	limit := parseIntQuery(c, "limit", 100)
	offset := parseIntQuery(c, "offset", 0)
	if limit < 0 || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit and offset must be non-negative"})
		return
	}

	claims := s.bridge.BySender(c.Param("addr"))
	if offset > len(claims) {
		offset = len(claims)
	}
	claims = claims[offset:]
	if limit < len(claims) {
		claims = claims[:limit]
	}

	out := make([]claimResponse, 0, len(claims))
	for _, claim := range claims {
		out = append(out, s.toClaimResponse(claim))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleBridgeCollection(c *gin.Context) {
	if !s.bridgeEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "bridge is not enabled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": s.bridgeCfg.CollectionName,
		"size": s.collection.Size(),
	})
}

func (s *Server) handleBridgeCollectionCheck(c *gin.Context) {
	if !s.bridgeEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "bridge is not enabled"})
		return
	}

	item, ok := s.collection.ByInscriptionID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "inscription is not in the collection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inscription_id": item.InscriptionID, "token_id": item.TokenID, "meta": item.Meta})
}

func (s *Server) handleBridgeCollectionToken(c *gin.Context) {
	if !s.bridgeEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "bridge is not enabled"})
		return
	}

	tokenID, err := strconv.Atoi(c.Param("tokenId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tokenId must be an integer"})
		return
	}

	item, ok := s.collection.ByTokenID(tokenID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "token id not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inscription_id": item.InscriptionID, "token_id": item.TokenID, "meta": item.Meta})
}

func (s *Server) handleBridgeRetryFailed(c *gin.Context) {
	if !s.bridgeEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "bridge is not enabled"})
		return
	}

	retried := s.bridge.RetryFailed()
	c.JSON(http.StatusOK, gin.H{"retried": retried})
}
