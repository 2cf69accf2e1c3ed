package tracker

import (
	"context"
	"image"
	"testing"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/ledger"
	"github.com/AkatukiSora/item-charges/internal/persistence"
	"github.com/AkatukiSora/item-charges/internal/settings"
)

type fakeBoard struct {
	badges map[BadgeKey]Badge
	adds   int
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{badges: make(map[BadgeKey]Badge)}
}

func (b *fakeBoard) Add(badge Badge) {
	b.adds++
	b.badges[badge.Key] = badge
}

func (b *fakeBoard) RemoveWhere(match func(BadgeKey) bool) {
	for k := range b.badges {
		if match(k) {
			delete(b.badges, k)
		}
	}
}

func (b *fakeBoard) charges(cat catalog.Category, slot catalog.Slot) (int, bool) {
	badge, ok := b.badges[BadgeKey{Category: cat, Slot: slot}]
	return badge.Charges, ok
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(message string) { n.messages = append(n.messages, message) }

type fakeEquipment struct {
	snap Snapshot
	ok   bool
}

func (e *fakeEquipment) Equipment() (Snapshot, bool) { return e.snap, e.ok }

type fakeItems struct{}

func (fakeItems) Name(id catalog.ItemID) string { return catalog.Name(id) }
func (fakeItems) Icon(catalog.ItemID) image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

type harness struct {
	ctx        context.Context
	repo       *persistence.MemoryRepository
	settings   *settings.Settings
	ledger     *ledger.Ledger
	board      *fakeBoard
	notifier   *fakeNotifier
	equipment  *fakeEquipment
	sync       *Synchronizer
	dispatcher *Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ctx:       context.Background(),
		repo:      persistence.NewMemoryRepository(),
		board:     newFakeBoard(),
		notifier:  &fakeNotifier{},
		equipment: &fakeEquipment{},
	}
	h.settings = settings.New(h.repo)
	h.ledger = ledger.New(h.settings)
	h.sync = NewSynchronizer(h.ledger, h.board, fakeItems{})
	h.dispatcher = NewDispatcher(Options{
		Ledger:    h.ledger,
		Sync:      h.sync,
		Toggles:   h.settings,
		Equipment: h.equipment,
		Notifier:  h.notifier,
	})
	return h
}

func (h *harness) equip(snap Snapshot) {
	h.equipment.snap = snap
	h.equipment.ok = true
	h.dispatcher.OnEquipmentChanged(h.ctx, snap)
}

func (h *harness) charge(t *testing.T, cat catalog.Category) int {
	t.Helper()
	n, err := h.ledger.Get(h.ctx, cat)
	if err != nil {
		t.Fatalf("ledger get %s: %v", cat, err)
	}
	return n
}
