package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryService keeps records for the lifetime of the process.
type MemoryService struct {
	mu          sync.RWMutex
	records     map[string]MatchRecord
	recentLimit int
}

func NewMemoryService(recentLimit int) *MemoryService {
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &MemoryService{
		records:     make(map[string]MatchRecord),
		recentLimit: recentLimit,
	}
}

func (s *MemoryService) Close() error { return nil }

func (s *MemoryService) RecordMatch(_ context.Context, rec MatchRecord) error {
	if strings.TrimSpace(rec.MatchID) == "" {
		return nil
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	rec.Tape = append([]byte(nil), rec.Tape...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.MatchID]; ok {
		return nil
	}
	s.records[rec.MatchID] = rec
	if over := len(s.records) - s.recentLimit; over > 0 {
		for _, old := range s.sortedLocked()[s.recentLimit:] {
			delete(s.records, old.MatchID)
		}
	}
	return nil
}

func (s *MemoryService) ListRecent(_ context.Context, limit int) ([]HistoryItem, error) {
	limit = clampLimit(limit, s.recentLimit)
	s.mu.RLock()
	defer s.mu.RUnlock()
	sorted := s.sortedLocked()
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	items := make([]HistoryItem, 0, len(sorted))
	for _, rec := range sorted {
		items = append(items, rec.historyItem())
	}
	return items, nil
}

func (s *MemoryService) GetMatch(_ context.Context, matchID string) (*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	rec.Tape = append([]byte(nil), rec.Tape...)
	return &rec, nil
}

// sortedLocked orders newest first.
func (s *MemoryService) sortedLocked() []MatchRecord {
	out := make([]MatchRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.After(out[j].PlayedAt)
		}
		return out[i].MatchID > out[j].MatchID
	})
	return out
}
