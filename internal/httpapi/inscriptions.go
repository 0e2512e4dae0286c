// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package httpapi

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ordbridge/internal/store"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type inscriptionResponse struct {
	ID                string `json:"id"`
	ContentType       string `json:"content_type"`
	ContentBase64     string `json:"content_base64"`
	Size              int    `json:"size"`
	BlockHeight       int64  `json:"block_height"`
	BlockHash         string `json:"block_hash"`
	TxID              string `json:"txid"`
	Vout              uint32 `json:"vout"`
	Owner             string `json:"owner"`
	Timestamp         int64  `json:"timestamp"`
	InscriptionNumber int64  `json:"inscription_number"`
}

func toInscriptionResponse(ins store.Inscription) inscriptionResponse {
	return inscriptionResponse{
		ID:                ins.ID,
		ContentType:       ins.ContentType,
		ContentBase64:     base64.StdEncoding.EncodeToString(ins.Content),
		Size:              len(ins.Content),
		BlockHeight:       ins.BlockHeight,
		BlockHash:         ins.BlockHash,
		TxID:              ins.TxID,
		Vout:              ins.Vout,
		Owner:             ins.Owner,
		Timestamp:         ins.Timestamp,
		InscriptionNumber: ins.InscriptionNumber,
	}
}

func (s *Server) handleInscription(c *gin.Context) {
	ins, ok := s.ins.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "inscription not found"})
		return
	}
	c.JSON(http.StatusOK, toInscriptionResponse(ins))
}

func (s *Server) handleContent(c *gin.Context) {
	ins, ok := s.ins.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "inscription not found"})
		return
	}

	contentType := ins.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, contentType, ins.Content)
}

func (s *Server) handleByOwner(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 100)
	offset := parseIntQuery(c, "offset", 0)
	if limit < 0 || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit and offset must be non-negative"})
		return
	}

	results := s.ins.ByOwner(c.Param("addr"), limit, offset)
	c.JSON(http.StatusOK, toInscriptionResponses(results))
}

func (s *Server) handleLatest(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 20)
	if limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be non-negative"})
		return
	}

	results := s.ins.Latest(limit)
	c.JSON(http.StatusOK, toInscriptionResponses(results))
}

func (s *Server) handleByContentType(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 100)
	if limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be non-negative"})
		return
	}

	mime := decodeMime(c.Param("mime"))
	results := s.ins.ByContentType(mime, limit)
	c.JSON(http.StatusOK, toInscriptionResponses(results))
}

func (s *Server) handleStats(c *gin.Context) {
	stats := s.ins.Stats()

	histogram := make([]gin.H, 0, len(stats.ContentTypeCounts))
	for _, entry := range stats.ContentTypeCounts {
		histogram = append(histogram, gin.H{"content_type": entry.ContentType, "count": entry.Count})
	}

	c.JSON(http.StatusOK, gin.H{
		"total":              stats.Total,
		"distinct_owners":    stats.DistinctOwners,
		"content_type_stats": histogram,
	})
}

func toInscriptionResponses(results []store.Inscription) []inscriptionResponse {
	out := make([]inscriptionResponse, 0, len(results))
	for _, ins := range results {
		out = append(out, toInscriptionResponse(ins))
	}
	return out
}

func parseIntQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
