package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/classifier"
	"github.com/AkatukiSora/item-charges/internal/persistence"
	"github.com/AkatukiSora/item-charges/internal/settings"
)

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(settings.New(persistence.NewMemoryRepository()))
}

func TestGetDefaults(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	ctx := context.Background()

	tests := []struct {
		cat  catalog.Category
		want int
	}{
		{catalog.CategoryDodgyNecklace, 10},
		{catalog.CategoryBindingNecklace, 16},
		{catalog.CategoryBraceletOfSlaughter, 30},
		{catalog.CategoryChronicle, 0},
		{catalog.CategoryXericTalisman, 0},
		{catalog.CategorySoulBearer, 0},
	}
	for _, tt := range tests {
		got, err := l.Get(ctx, tt.cat)
		require.NoError(t, err, tt.cat)
		assert.Equal(t, tt.want, got, tt.cat)
	}
}

func TestGetFloorsStoredNegative(t *testing.T) {
	t.Parallel()
	repo := persistence.NewMemoryRepository()
	l := New(settings.New(repo))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, settings.Group, "dodgyNecklace", "-3"))
	got, err := l.Get(ctx, catalog.CategoryDodgyNecklace)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestUntrackedCategory(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	ctx := context.Background()

	_, err := l.Get(ctx, catalog.CategoryTeleport)
	assert.True(t, errors.Is(err, ErrUntracked))
	err = l.Set(ctx, catalog.CategoryAbyssalBracelet, 3)
	assert.True(t, errors.Is(err, ErrUntracked))
	_, err = l.Apply(ctx, catalog.CategoryTeleport, classifier.SetZero())
	assert.True(t, errors.Is(err, ErrUntracked))
}

func TestApplyOps(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	ctx := context.Background()
	cat := catalog.CategoryDodgyNecklace

	n, err := l.Apply(ctx, cat, classifier.SetAbsolute(4))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = l.Apply(ctx, cat, classifier.SetMax())
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = l.Apply(ctx, cat, classifier.SetZero())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := l.Get(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestDecrementFloorsAtZero(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Set(ctx, catalog.CategoryXericTalisman, 2))
	for i := 0; i < 5; i++ {
		_, err := l.Apply(ctx, catalog.CategoryXericTalisman, classifier.Decrement(1))
		require.NoError(t, err)
	}
	got, err := l.Get(ctx, catalog.CategoryXericTalisman)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	require.NoError(t, l.Set(ctx, catalog.CategoryChronicle, -4))
	got, err = l.Get(ctx, catalog.CategoryChronicle)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestBindingNecklaceOverflowThenDecrement(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	ctx := context.Background()
	cat := catalog.CategoryBindingNecklace
	c := classifier.New()

	depleted, ok := c.Classify(classifier.SourceChat, "Your Binding necklace has disintegrated.")
	require.True(t, ok)
	n, err := l.Apply(ctx, cat, depleted.Op)
	require.NoError(t, err)
	assert.Equal(t, 17, n)

	used, ok := c.Classify(classifier.SourceChat, "You bind the temple's power into mist runes.")
	require.True(t, ok)
	for _, want := range []int{16, 15, 14} {
		n, err = l.Apply(ctx, cat, used.Op)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestSetMaxRejectsUncapped(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	_, err := l.Apply(context.Background(), catalog.CategorySoulBearer, classifier.SetMax())
	assert.Error(t, err)
}
