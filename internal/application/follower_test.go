package application

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/persistence"
)

type eventLog struct {
	mu     sync.Mutex
	events []FollowEvent
}

func (l *eventLog) add(ev FollowEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) watching(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if ev.Status == FollowWatching && ev.Path == path {
			return true
		}
	}
	return false
}

func TestFollowerImportsExistingAndAppendedLines(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	path := filepath.Join(dir, "item_charges_2026-02-21.log")
	require.NoError(t, os.WriteFile(path, []byte(
		"2026.02.21 00:18:53 Chat - GAMEMESSAGE - Your dodgy necklace has 4 charges left.\n"+
			"2026.02.21 00:18:54 Equipment - amulet=21143\n"), 0o644))

	svc, board, _ := newTestService(t, persistence.NewMemoryRepository())
	events := &eventLog{}
	f := NewFollower(ctx, svc, events.add)
	t.Cleanup(f.Close)
	f.Request(path)

	require.Eventually(t, func() bool {
		b, ok := board.get(catalog.CategoryDodgyNecklace, catalog.SlotAmulet)
		return ok && b.Charges == 4
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool { return events.watching(path) }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, path, f.Current())

	fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = fh.WriteString("2026.02.21 00:19:10 Chat - GAMEMESSAGE - Your dodgy necklace has 2 charges left.\n")
	require.NoError(t, err)
	require.NoError(t, fh.Close())

	require.Eventually(t, func() bool {
		b, ok := board.get(catalog.CategoryDodgyNecklace, catalog.SlotAmulet)
		return ok && b.Charges == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFollowerSwitchesToNewSession(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	first := filepath.Join(dir, "item_charges_1.log")
	require.NoError(t, os.WriteFile(first, []byte("2026.02.21 00:18:54 Equipment - amulet=21143\n"), 0o644))

	svc, _, _ := newTestService(t, persistence.NewMemoryRepository())
	events := &eventLog{}
	f := NewFollower(ctx, svc, events.add)
	t.Cleanup(f.Close)
	f.Request(first)
	require.Eventually(t, func() bool { return events.watching(first) }, 5*time.Second, 20*time.Millisecond)

	second := filepath.Join(dir, "item_charges_2.log")
	require.NoError(t, os.WriteFile(second, []byte("2026.02.21 01:00:00 Chat - GAMEMESSAGE - Your dodgy necklace has 6 charges left.\n"), 0o644))

	require.Eventually(t, func() bool { return events.watching(second) }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, second, svc.LogPath())
	require.Eventually(t, func() bool {
		for _, r := range svc.Charges(ctx) {
			if r.Category == catalog.CategoryDodgyNecklace {
				return r.Charges == 6
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFollowerIgnoresRequestsAfterClose(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t, persistence.NewMemoryRepository())
	f := NewFollower(context.Background(), svc, nil)
	f.Close()
	f.Request(filepath.Join(t.TempDir(), "item_charges_x.log"))
	assert.Empty(t, f.Current())
}

func TestFollowerWaitsForFirstLog(t *testing.T) {
	discoverInterval = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	svc, _, _ := newTestService(t, persistence.NewMemoryRepository())
	events := &eventLog{}
	f := NewFollower(ctx, svc, events.add)
	t.Cleanup(f.Close)
	f.Follow("", dir)

	path := filepath.Join(dir, "item_charges_late.log")
	require.NoError(t, os.WriteFile(path, []byte("2026.02.21 00:18:54 Tick - 1\n"), 0o644))
	require.Eventually(t, func() bool { return events.watching(path) }, 5*time.Second, 20*time.Millisecond)
}
