package weightlog

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{entries: make(map[string][]Entry)}
}

func (r *memoryRepository) Create(_ context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := Day(entry.Date)
	for _, e := range r.entries[entry.UserID] {
		if Day(e.Date).Equal(day) {
			return ErrDuplicateDay
		}
	}
	r.entries[entry.UserID] = append(r.entries[entry.UserID], entry)
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Entry{}, r.entries[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
