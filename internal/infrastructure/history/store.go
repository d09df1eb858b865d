// Package history keeps the bounded list of past enhancements as one JSON
// array under a single key, newest first.
package history

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// Store implements ports.HistoryRepository. The whole collection is
// re-serialised on every write.
type Store struct {
	kv     ports.KeyValueStore
	logger ports.Logger
	now    func() time.Time
	limit  int
	mu     sync.Mutex
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore wraps kv.
func NewStore(kv ports.KeyValueStore, logger ports.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		limit:  domain.MaxHistoryRecords,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records a successful enhancement and returns it.
// IDs are creation milliseconds, bumped when the clock has not advanced past
// the newest record.
func (s *Store) Append(input, output string) domain.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	created := s.now()
	record := domain.HistoryRecord{
		ID:     created.UnixMilli(),
		Input:  input,
		Output: output,
		Date:   created.UTC(),
	}
	if len(records) > 0 && record.ID <= records[0].ID {
		record.ID = records[0].ID + 1
	}

	records = append([]domain.HistoryRecord{record}, records...)
	if len(records) > s.limit {
		records = records[:s.limit]
	}
	s.save(records)
	return record
}

// List returns all records, newest first.
func (s *Store) List() []domain.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the record with id.
func (s *Store) Get(id int64) (domain.HistoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.load() {
		if record.ID == id {
			return record, true
		}
	}
	return domain.HistoryRecord{}, false
}

// Remove deletes the record with id. Unknown ids are ignored.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	kept := records[:0]
	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return
	}
	s.save(kept)
}

// Clear drops every record, persisting an empty list.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.save([]domain.HistoryRecord{})
}

// load treats missing, unreadable and corrupt data as an empty history.
func (s *Store) load() []domain.HistoryRecord {
	raw, ok, err := s.kv.Get(domain.KeyPromptHistory)
	if err != nil {
		s.logger.Warn("history read failed", map[string]interface{}{"error": err.Error()})
		return []domain.HistoryRecord{}
	}
	if !ok || raw == "" {
		return []domain.HistoryRecord{}
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("history data corrupt, starting empty", map[string]interface{}{"error": err.Error()})
		return []domain.HistoryRecord{}
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	return records
}

func (s *Store) save(records []domain.HistoryRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		s.logger.Warn("history encode failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.kv.Set(domain.KeyPromptHistory, string(data)); err != nil {
		s.logger.Warn("history write failed", map[string]interface{}{"error": err.Error()})
	}
}

var _ ports.HistoryRepository = (*Store)(nil)
