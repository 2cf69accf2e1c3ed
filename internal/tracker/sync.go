package tracker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/ledger"
)

// Synchronizer derives the badges of a category from the ledger and the
// equipment. Every pass removes before it adds, so repeated passes over the
// same state leave the same badge set.
type Synchronizer struct {
	ledger ChargeReader
	badges BadgeStore
	items  ItemInfo
}

func NewSynchronizer(l ChargeReader, badges BadgeStore, items ItemInfo) *Synchronizer {
	return &Synchronizer{ledger: l, badges: badges, items: items}
}

func (s *Synchronizer) Reconcile(ctx context.Context, cat catalog.Category, snap Snapshot) {
	for _, slot := range cat.Slots() {
		s.reconcileSlot(ctx, cat, slot, snap)
	}
}

func (s *Synchronizer) reconcileSlot(ctx context.Context, cat catalog.Category, slot catalog.Slot, snap Snapshot) {
	key := BadgeKey{Category: cat, Slot: slot}
	s.badges.RemoveWhere(func(k BadgeKey) bool { return k == key })

	id, ok := snap[slot]
	if !ok || id < 0 {
		return
	}
	charges := s.resolve(ctx, cat, id)
	if charges <= 0 {
		return
	}
	s.badges.Add(Badge{
		Key:     key,
		ItemID:  id,
		Name:    s.items.Name(id),
		Icon:    s.items.Icon(id),
		Charges: charges,
	})
}

// resolve returns the charge count to show for id in a slot of cat, or 0.
func (s *Synchronizer) resolve(ctx context.Context, cat catalog.Category, id catalog.ItemID) int {
	if entry, ok := catalog.Lookup(id); ok {
		if entry.Category != cat {
			return 0
		}
		if entry.Charges > 0 {
			return entry.Charges
		}
		return s.ledgerValue(ctx, cat)
	}
	if legacy, ok := catalog.Legacy(id); ok && legacy == cat {
		return s.ledgerValue(ctx, cat)
	}
	return 0
}

func (s *Synchronizer) ledgerValue(ctx context.Context, cat catalog.Category) int {
	n, err := s.ledger.Get(ctx, cat)
	if err != nil {
		if !errors.Is(err, ledger.ErrUntracked) {
			slog.Error("read charges", "category", cat.String(), "error", err)
		}
		return 0
	}
	return n
}

// Remove drops every badge of cat.
func (s *Synchronizer) Remove(cat catalog.Category) {
	s.badges.RemoveWhere(func(k BadgeKey) bool { return k.Category == cat })
}

func (s *Synchronizer) RemoveAll() {
	s.badges.RemoveWhere(func(BadgeKey) bool { return true })
}
