package friends

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	friends map[string][]string
}

// NewMemoryRepository constructs an in-memory friendship repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{friends: make(map[string][]string)}
}

func (r *memoryRepository) Add(_ context.Context, userID, friendID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.friends[userID] {
		if id == friendID {
			return ErrAlreadyFriends
		}
	}
	r.friends[userID] = append(r.friends[userID], friendID)
	return nil
}

func (r *memoryRepository) Remove(_ context.Context, userID, friendID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.friends[userID]
	for i, id := range ids {
		if id == friendID {
			r.friends[userID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return ErrNotFriends
}

func (r *memoryRepository) List(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.friends[userID]...), nil
}
