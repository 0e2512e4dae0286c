// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package store

import (
	"sort"
	"sync"
)

// InscriptionStore is the IS component from spec.md §4.2: an append-mostly
// table of decoded inscriptions with the three secondary indexes the query
// surface needs (owner, content type, insertion order). There is no
// block-height index; DeleteFromHeight scans the insertion order.
// Every exported method is safe for concurrent use.
type InscriptionStore struct {
	mu sync.RWMutex

	byID        map[string]*Inscription
	byOwner     map[string][]string // owner -> inscription ids, insertion order.
	byContent   map[string][]string // content type -> inscription ids, insertion order.
	order       []string            // all ids, insertion order; latest() reads this in reverse.
	distinctOwn map[string]int      // owner -> live row count, for stats() and owner-index cleanup.
}

// NewInscriptionStore returns an empty store.
func NewInscriptionStore() *InscriptionStore {
	return &InscriptionStore{
		byID:        make(map[string]*Inscription),
		byOwner:     make(map[string][]string),
		byContent:   make(map[string][]string),
		distinctOwn: make(map[string]int),
	}
}

// Save inserts an inscription. Idempotent: re-saving an id already present
// is a no-op, matching spec.md §4.2's "save is idempotent on id" guarantee
// so a re-processed block during reorg recovery never double-counts.
func (s *InscriptionStore) Save(ins Inscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[ins.ID]; exists {
		return
	}

	cp := ins
	s.byID[ins.ID] = &cp
	s.order = append(s.order, ins.ID)
	s.byOwner[ins.Owner] = append(s.byOwner[ins.Owner], ins.ID)
	s.byContent[ins.ContentType] = append(s.byContent[ins.ContentType], ins.ID)
	s.distinctOwn[ins.Owner]++
}

// Get looks up a single inscription by id.
func (s *InscriptionStore) Get(id string) (Inscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ins, ok := s.byID[id]
	if !ok {
		return Inscription{}, false
	}
	return *ins, true
}

// ByOwner returns up to limit inscriptions owned by addr, most recent first,
// skipping offset rows. limit is clamped to 1000 per spec.md §6.
func (s *InscriptionStore) ByOwner(addr string, limit, offset int) []Inscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = clamp(limit, 1000)
	ids := s.byOwner[addr]
	return s.page(reversed(ids), limit, offset)
}

// Latest returns up to limit inscriptions, most recently indexed first.
// limit is clamped to 100 per spec.md §6.
func (s *InscriptionStore) Latest(limit int) []Inscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = clamp(limit, 100)
	return s.page(reversed(s.order), limit, 0)
}

// ByContentType returns up to limit inscriptions of the given MIME type,
// most recent first. limit is clamped to 1000 per spec.md §6.
func (s *InscriptionStore) ByContentType(contentType string, limit int) []Inscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = clamp(limit, 1000)
	return s.page(reversed(s.byContent[contentType]), limit, 0)
}

// Count returns the total number of stored inscriptions.
func (s *InscriptionStore) Count() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.order))
}

// Stats returns the aggregate view GET /stats serves: total rows, distinct
// owner count, and a content-type histogram sorted by descending count.
func (s *InscriptionStore) Stats() InscriptionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := InscriptionStats{Total: int64(len(s.order))}
	for _, n := range s.distinctOwn {
		if n > 0 {
			stats.DistinctOwners++
		}
	}

	for ct, ids := range s.byContent {
		if len(ids) == 0 {
			continue
		}
		stats.ContentTypeCounts = append(stats.ContentTypeCounts, ContentTypeHistogramEntry{
			ContentType: ct,
			Count:       int64(len(ids)),
		})
	}
	sort.Slice(stats.ContentTypeCounts, func(i, j int) bool {
		if stats.ContentTypeCounts[i].Count != stats.ContentTypeCounts[j].Count {
			return stats.ContentTypeCounts[i].Count > stats.ContentTypeCounts[j].Count
		}
		return stats.ContentTypeCounts[i].ContentType < stats.ContentTypeCounts[j].ContentType
	})

	return stats
}

// DeleteFromHeight removes every inscription with BlockHeight >= height,
// the reorg-rollback primitive IX calls when a fork is detected. Returns
// the number of rows removed.
func (s *InscriptionStore) DeleteFromHeight(height int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []string
	removed := 0

	for _, id := range s.order {
		ins := s.byID[id]
		if ins.BlockHeight >= height {
			removed++
			delete(s.byID, id)
			s.distinctOwn[ins.Owner]--
			s.byOwner[ins.Owner] = removeID(s.byOwner[ins.Owner], id)
			s.byContent[ins.ContentType] = removeID(s.byContent[ins.ContentType], id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	return removed
}

func (s *InscriptionStore) page(ids []string, limit, offset int) []Inscription {
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]Inscription, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.byID[id])
	}
	return out
}

func clamp(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func removeID(ids []string, target string) []string {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
