package tracker

import (
	"context"
	"image"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/classifier"
)

// BadgeKey identifies a badge for removal.
type BadgeKey struct {
	Category catalog.Category
	Slot     catalog.Slot
}

// Badge is one equipped, charge-tracked item as shown on the HUD.
type Badge struct {
	Key     BadgeKey
	ItemID  catalog.ItemID
	Name    string
	Icon    image.Image
	Charges int
}

// Snapshot is the equipment by slot. A missing slot is empty.
type Snapshot map[catalog.Slot]catalog.ItemID

type BadgeStore interface {
	Add(b Badge)
	RemoveWhere(match func(BadgeKey) bool)
}

type Notifier interface {
	Notify(message string)
}

type ItemInfo interface {
	Name(id catalog.ItemID) string
	Icon(id catalog.ItemID) image.Image
}

// EquipmentProvider returns the current equipment. ok is false until the
// first snapshot has been seen.
type EquipmentProvider interface {
	Equipment() (snap Snapshot, ok bool)
}

// Toggles is the read side of the display and notification settings.
type Toggles interface {
	ShowInfoboxes(ctx context.Context) bool
	ShowCategory(ctx context.Context, cat catalog.Category) bool
	Bool(ctx context.Context, key string) bool
}

type ChargeReader interface {
	Get(ctx context.Context, cat catalog.Category) (int, error)
}

type ChargeLedger interface {
	ChargeReader
	Apply(ctx context.Context, cat catalog.Category, op classifier.ChargeOp) (int, error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
