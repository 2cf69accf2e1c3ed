package persistence

import (
	"context"
	"sync"
)

type settingKey struct {
	group string
	key   string
}

// MemoryRepository keeps settings in process memory. It is used by tests and
// as the fallback when the SQLite database cannot be opened.
type MemoryRepository struct {
	mu        sync.RWMutex
	values    map[settingKey]string
	listeners listenerSet
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[settingKey]string)}
}

func (r *MemoryRepository) Get(_ context.Context, group, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[settingKey{group, key}]
	return v, ok, nil
}

func (r *MemoryRepository) Set(_ context.Context, group, key, value string) error {
	r.mu.Lock()
	prev, existed := r.values[settingKey{group, key}]
	r.values[settingKey{group, key}] = value
	r.mu.Unlock()

	if existed && prev == value {
		return nil
	}
	r.listeners.emit(Change{Group: group, Key: key, Value: value})
	return nil
}

func (r *MemoryRepository) Unset(_ context.Context, group, key string) error {
	r.mu.Lock()
	_, existed := r.values[settingKey{group, key}]
	delete(r.values, settingKey{group, key})
	r.mu.Unlock()

	if existed {
		r.listeners.emit(Change{Group: group, Key: key, Deleted: true})
	}
	return nil
}

func (r *MemoryRepository) List(_ context.Context, group string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string)
	for k, v := range r.values {
		if k.group == group {
			out[k.key] = v
		}
	}
	return out, nil
}

func (r *MemoryRepository) Subscribe(fn func(Change)) func() {
	return r.listeners.add(fn)
}

func (r *MemoryRepository) Close() error { return nil }
