// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package httpapi implements the read-only HTTP query surface from
// spec.md §6: inscription lookups, stats, and bridge claim/collection
// queries, plus the one mutating endpoint (retry-failed).
package httpapi

import (
	"log/slog"
	"net/url"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ordbridge/internal/bridge"
	"ordbridge/internal/collectionregistry"
	"ordbridge/internal/store"
)

// Bridge is the subset of the bridge service the HTTP surface reads from.
type Bridge interface {
	Get(inscriptionID string) (store.BurnClaim, error)
	BySender(addr string) []store.BurnClaim
	Stats() store.BridgeStats
	RetryFailed() int
}

// Server wires the gin router over the inscription store, bridge service,
// and collection registry.
type Server struct {
	router     *gin.Engine
	ins        *store.InscriptionStore
	bridge     Bridge
	bridgeCfg  bridge.Config
	collection *collectionregistry.Registry
	log        *slog.Logger
}

// New constructs a Server. collection and br may be nil when the bridge
// subsystem is disabled; every /bridge/* route then responds 404.
func New(ins *store.InscriptionStore, br Bridge, bridgeCfg bridge.Config, collection *collectionregistry.Registry, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:     gin.New(),
		ins:        ins,
		bridge:     br,
		bridgeCfg:  bridgeCfg,
		collection: collection,
		log:        log,
	}
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))
	s.routes()
	return s
}

// Router exposes the underlying gin engine, e.g. for http.Server.Handler.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/inscription/:id", s.handleInscription)
	s.router.GET("/content/:id", s.handleContent)
	s.router.GET("/inscriptions/owner/:addr", s.handleByOwner)
	s.router.GET("/inscriptions/latest", s.handleLatest)
	s.router.GET("/inscriptions/type/:mime", s.handleByContentType)
	s.router.GET("/stats", s.handleStats)

	s.router.GET("/bridge/stats", s.handleBridgeStats)
	s.router.GET("/bridge/claim/:id", s.handleBridgeClaim)
	s.router.GET("/bridge/claims/sender/:addr", s.handleBridgeClaimsBySender)
	s.router.GET("/bridge/collection", s.handleBridgeCollection)
	s.router.GET("/bridge/collection/check/:id", s.handleBridgeCollectionCheck)
	s.router.GET("/bridge/collection/token/:tokenId", s.handleBridgeCollectionToken)
	s.router.POST("/bridge/retry-failed", s.handleBridgeRetryFailed)
}

func (s *Server) bridgeEnabled() bool {
	return s.bridge != nil && s.collection != nil
}

func decodeMime(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
