package persistence

import (
	"context"
	"sort"
	"sync"
)

// Change describes a single write to the settings store.
type Change struct {
	Group   string
	Key     string
	Value   string
	Deleted bool
}

// SettingsRepository is a flat group/key → string store that survives
// restarts. Writes that change a value are reported to subscribers in the
// writer's goroutine, after the write is durable.
type SettingsRepository interface {
	Get(ctx context.Context, group, key string) (string, bool, error)
	Set(ctx context.Context, group, key, value string) error
	Unset(ctx context.Context, group, key string) error
	// List returns every key of group with its value.
	List(ctx context.Context, group string) (map[string]string, error)
	// Subscribe registers fn for change notifications and returns a function
	// that removes it.
	Subscribe(fn func(Change)) func()
	Close() error
}

type listenerSet struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(Change)
}

func (l *listenerSet) add(fn func(Change)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(Change))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

// emit calls listeners in registration order without holding the lock, so a
// listener may write to the store again.
func (l *listenerSet) emit(c Change) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
