package storage

import (
	"context"
	"sort"
	"sync"

	"mercator-hq/saturn/pkg/journal"
)

// MemoryStorage implements journal.Storage using an in-memory map.
// It is intended for tests and ephemeral runs; nothing survives a restart.
type MemoryStorage struct {
	records map[string]*journal.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*journal.Record),
	}
}

// Store persists a journal record to memory.
func (s *MemoryStorage) Store(ctx context.Context, record *journal.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to decouple from caller mutation
	recordCopy := *record
	s.records[record.ID] = &recordCopy

	return nil
}

// Query retrieves records matching the query filters, sorted by timestamp.
func (s *MemoryStorage) Query(ctx context.Context, query *journal.Query) ([]*journal.Record, error) {
	if query == nil {
		query = &journal.Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*journal.Record, 0)
	for _, record := range s.records {
		if matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if query.SortOrder == "desc" {
			return results[i].Timestamp.After(results[j].Timestamp)
		}
		return results[i].Timestamp.Before(results[j].Timestamp)
	})

	// Apply pagination
	start := query.Offset
	if start > len(results) {
		return []*journal.Record{}, nil
	}
	results = results[start:]

	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results, nil
}

// Count returns the number of records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *journal.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			count++
		}
	}

	return count, nil
}

// Delete removes records matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *journal.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if matchesQuery(record, query) {
			delete(s.records, id)
			deleted++
		}
	}

	return deleted, nil
}

// Close releases the backend. Memory storage holds no external resources.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*journal.Record)
	return nil
}

// Size returns the number of stored records.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// matchesQuery checks if a record matches all query filters.
func matchesQuery(record *journal.Record, query *journal.Query) bool {
	if query == nil {
		return true
	}

	if query.Resource != "" && record.Resource != query.Resource {
		return false
	}
	if query.Decision != "" && record.Decision != query.Decision {
		return false
	}
	if query.StartTime != nil && record.Timestamp.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.Timestamp.After(*query.EndTime) {
		return false
	}

	return true
}
