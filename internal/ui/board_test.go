package ui

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/settings"
	"github.com/AkatukiSora/item-charges/internal/tracker"
)

func badge(cat catalog.Category, slot catalog.Slot, charges int) tracker.Badge {
	return tracker.Badge{Key: tracker.BadgeKey{Category: cat, Slot: slot}, Charges: charges}
}

func TestBoardAddReplacesSameKey(t *testing.T) {
	t.Parallel()
	b := NewBoard()
	b.Add(badge(catalog.CategoryDodgyNecklace, catalog.SlotAmulet, 4))
	b.Add(badge(catalog.CategoryDodgyNecklace, catalog.SlotAmulet, 3))

	got := b.Badges()
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Charges)
}

func TestBoardOrdersByCategoryThenSlot(t *testing.T) {
	t.Parallel()
	b := NewBoard()
	b.Add(badge(catalog.CategoryChronicle, catalog.SlotShield, 100))
	b.Add(badge(catalog.CategoryTeleport, catalog.SlotRing, 4))
	b.Add(badge(catalog.CategoryDodgyNecklace, catalog.SlotAmulet, 2))
	b.Add(badge(catalog.CategoryTeleport, catalog.SlotAmulet, 6))

	var keys []tracker.BadgeKey
	for _, x := range b.Badges() {
		keys = append(keys, x.Key)
	}
	assert.Equal(t, []tracker.BadgeKey{
		{Category: catalog.CategoryTeleport, Slot: catalog.SlotAmulet},
		{Category: catalog.CategoryTeleport, Slot: catalog.SlotRing},
		{Category: catalog.CategoryDodgyNecklace, Slot: catalog.SlotAmulet},
		{Category: catalog.CategoryChronicle, Slot: catalog.SlotShield},
	}, keys)
}

func TestBoardRemoveWhereNotifiesOnlyOnRemoval(t *testing.T) {
	t.Parallel()
	b := NewBoard()
	calls := 0
	b.SetOnChange(func() { calls++ })

	b.Add(badge(catalog.CategoryTeleport, catalog.SlotRing, 4))
	b.Add(badge(catalog.CategoryTeleport, catalog.SlotAmulet, 6))
	require.Equal(t, 2, calls)

	b.RemoveWhere(func(k tracker.BadgeKey) bool { return k.Category == catalog.CategoryChronicle })
	assert.Equal(t, 2, calls)

	b.RemoveWhere(func(k tracker.BadgeKey) bool { return k.Category == catalog.CategoryTeleport })
	assert.Equal(t, 3, calls)
	assert.Zero(t, b.Len())
}

func TestColorFor(t *testing.T) {
	t.Parallel()
	low := color.NRGBA{R: 0xFF, G: 0xFF, A: 0xFF}
	veryLow := color.NRGBA{R: 0xFF, A: 0xFF}
	th := settings.Thresholds{Low: 2, VeryLow: 1, LowColor: low, VeryLowColor: veryLow}

	tests := []struct {
		charges int
		want    color.NRGBA
	}{
		{0, veryLow},
		{1, veryLow},
		{2, low},
		{3, chargeNormalColor},
		{1000, chargeNormalColor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ColorFor(tt.charges, th), "charges=%d", tt.charges)
	}
}

func TestColorForVeryLowWinsWhenThresholdsOverlap(t *testing.T) {
	t.Parallel()
	th := settings.Thresholds{Low: 1, VeryLow: 3, LowColor: color.NRGBA{G: 0xFF, A: 0xFF}, VeryLowColor: color.NRGBA{R: 0xFF, A: 0xFF}}
	assert.Equal(t, th.VeryLowColor, ColorFor(1, th))
	assert.Equal(t, th.VeryLowColor, ColorFor(3, th))
	assert.Equal(t, chargeNormalColor, ColorFor(4, th))
}
