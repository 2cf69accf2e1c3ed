// Package ledger holds the believed charge count of every tracked category.
// Nothing is cached: each call reads or writes through the config store.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/classifier"
)

// ErrUntracked is returned for categories whose charges are not stored.
var ErrUntracked = errors.New("category has no ledger entry")

// IntStore is the slice of the config store the ledger needs.
type IntStore interface {
	Int(ctx context.Context, key string, def int) (int, error)
	SetInt(ctx context.Context, key string, n int) error
}

type Ledger struct {
	store IntStore
}

func New(store IntStore) *Ledger {
	return &Ledger{store: store}
}

// Get returns the stored count, or the category default when nothing has
// been stored yet. A negative stored value reads as 0.
func (l *Ledger) Get(ctx context.Context, cat catalog.Category) (int, error) {
	key := cat.LedgerKey()
	if key == "" {
		return 0, fmt.Errorf("get %s: %w", cat, ErrUntracked)
	}
	def := cat.Default()
	n, err := l.store.Int(ctx, key, def)
	if err != nil {
		return def, fmt.Errorf("get %s: %w", cat, err)
	}
	return max(n, 0), nil
}

// Set stores n, floored at 0. Values above the maximum are kept as given.
func (l *Ledger) Set(ctx context.Context, cat catalog.Category, n int) error {
	key := cat.LedgerKey()
	if key == "" {
		return fmt.Errorf("set %s: %w", cat, ErrUntracked)
	}
	if n < 0 {
		n = 0
	}
	if err := l.store.SetInt(ctx, key, n); err != nil {
		return fmt.Errorf("set %s: %w", cat, err)
	}
	return nil
}

// Apply performs op and returns the resulting count.
func (l *Ledger) Apply(ctx context.Context, cat catalog.Category, op classifier.ChargeOp) (int, error) {
	var next int
	switch op.Kind {
	case classifier.OpSetAbsolute:
		next = op.N
	case classifier.OpSetMax:
		limit, capped := cat.Max()
		if !capped {
			return 0, fmt.Errorf("apply %s to %s: category is uncapped", op, cat)
		}
		next = limit
	case classifier.OpSetZero:
		next = 0
	case classifier.OpDecrement:
		cur, err := l.Get(ctx, cat)
		if err != nil {
			return 0, err
		}
		next = cur - op.N
	default:
		return l.Get(ctx, cat)
	}
	if next < 0 {
		next = 0
	}
	if err := l.Set(ctx, cat, next); err != nil {
		return 0, err
	}
	return next, nil
}
