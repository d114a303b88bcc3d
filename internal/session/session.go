// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the in-memory record of the most recent completed
// research cycle. Follow-up operations (speech, chat) read it instead of
// re-running acquisition.
package session

import (
	"sync"

	"github.com/scholarmind/scholarmind/pkg/types"
)

// Store is a single-slot session store. Each completed cycle replaces the
// previous record wholesale.
type Store struct {
	mu     sync.RWMutex
	record types.GenerationRecord
	set    bool
}

// Set replaces the stored record.
func (s *Store) Set(rec types.GenerationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = rec
	s.set = true
}

// Snapshot returns a copy of the stored record. ok is false until the first
// completed cycle.
func (s *Store) Snapshot() (types.GenerationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return types.GenerationRecord{}, false
	}

	rec := s.record
	rec.Slides = append([]types.Slide(nil), s.record.Slides...)
	rec.Sources = append([]types.SearchResult(nil), s.record.Sources...)
	return rec, true
}
