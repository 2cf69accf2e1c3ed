package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is a charge counter shared by every identity of one item type.
type Category int

const (
	CategoryNone Category = iota
	CategoryTeleport
	CategoryDodgyNecklace
	CategoryAbyssalBracelet
	CategoryBraceletOfSlaughter
	CategoryExpeditiousBracelet
	CategoryBindingNecklace
	CategoryXericTalisman
	CategorySoulBearer
	CategoryChronicle
)

// Slot is an equipment slot, numbered with the client's slot index.
type Slot int

const (
	SlotHead   Slot = 0
	SlotCape   Slot = 1
	SlotAmulet Slot = 2
	SlotWeapon Slot = 3
	SlotBody   Slot = 4
	SlotShield Slot = 5
	SlotLegs   Slot = 7
	SlotGloves Slot = 9
	SlotBoots  Slot = 10
	SlotRing   Slot = 12
	SlotAmmo   Slot = 13
)

// ItemID is the client's item identity. Negative values mean an empty slot.
type ItemID int

const NoItem ItemID = -1

type categoryInfo struct {
	name      string
	max       int  // 0 = uncapped or identity encoded
	unknown   bool // no stored count reads as 0, not max
	slots     []Slot
	ledgerKey string
	toggleKey string
}

var categories = map[Category]categoryInfo{
	CategoryTeleport: {
		name:      "Teleport jewellery",
		slots:     []Slot{SlotWeapon, SlotAmulet, SlotGloves, SlotRing},
		toggleKey: "showTeleportCharges",
	},
	CategoryDodgyNecklace: {
		name:      "Dodgy necklace",
		max:       10,
		slots:     []Slot{SlotAmulet},
		ledgerKey: "dodgyNecklace",
		toggleKey: "showDodgyCount",
	},
	CategoryAbyssalBracelet: {
		name:      "Abyssal bracelet",
		slots:     []Slot{SlotGloves},
		toggleKey: "showAbyssalBraceletCharges",
	},
	CategoryBraceletOfSlaughter: {
		name:      "Bracelet of slaughter",
		max:       30,
		slots:     []Slot{SlotGloves},
		ledgerKey: "slaughter",
		toggleKey: "showSlayerBracelets",
	},
	CategoryExpeditiousBracelet: {
		name:      "Expeditious bracelet",
		max:       30,
		slots:     []Slot{SlotGloves},
		ledgerKey: "expeditious",
		toggleKey: "showSlayerBracelets",
	},
	CategoryBindingNecklace: {
		name:      "Binding necklace",
		max:       16,
		slots:     []Slot{SlotAmulet},
		ledgerKey: "bindingNecklace",
		toggleKey: "showBindingNecklaceCharges",
	},
	CategoryXericTalisman: {
		name:      "Xeric's talisman",
		ledgerKey: "xericTalisman",
	},
	CategorySoulBearer: {
		name:      "Soul bearer",
		ledgerKey: "soulBearer",
	},
	CategoryChronicle: {
		name:      "Chronicle",
		max:       1000,
		unknown:   true,
		slots:     []Slot{SlotShield},
		ledgerKey: "chronicle",
		toggleKey: "showChronicleCharges",
	},
}

// displayOrder is the order categories are reconciled on an equipment change.
var displayOrder = []Category{
	CategoryTeleport,
	CategoryDodgyNecklace,
	CategoryAbyssalBracelet,
	CategoryBraceletOfSlaughter,
	CategoryExpeditiousBracelet,
	CategoryBindingNecklace,
	CategoryChronicle,
}

// All returns every category in declaration order.
func All() []Category {
	return []Category{
		CategoryTeleport,
		CategoryDodgyNecklace,
		CategoryAbyssalBracelet,
		CategoryBraceletOfSlaughter,
		CategoryExpeditiousBracelet,
		CategoryBindingNecklace,
		CategoryXericTalisman,
		CategorySoulBearer,
		CategoryChronicle,
	}
}

// Displayable returns the categories that can be shown as badges.
func Displayable() []Category {
	out := make([]Category, len(displayOrder))
	copy(out, displayOrder)
	return out
}

func (c Category) String() string {
	if info, ok := categories[c]; ok {
		return info.name
	}
	return "Unknown"
}

// Max returns the maximum charge count. ok is false for uncapped categories
// and for categories whose charges are encoded in the item identity.
func (c Category) Max() (int, bool) {
	info := categories[c]
	return info.max, info.max > 0
}

// Default is the count assumed before anything is stored: the maximum for
// items that start full, 0 for uncapped ones and the chronicle, whose
// charges are bought separately.
func (c Category) Default() int {
	info := categories[c]
	if info.unknown {
		return 0
	}
	return info.max
}

// Slots returns the equipment slots an item of this category can occupy.
func (c Category) Slots() []Slot {
	info := categories[c]
	return append([]Slot(nil), info.slots...)
}

// LedgerKey is the config key holding the charge count, or "" when the
// category's charges live in the item identity.
func (c Category) LedgerKey() string { return categories[c].ledgerKey }

// ToggleKey is the config key of the display toggle, or "" when the category
// is never shown as a badge.
func (c Category) ToggleKey() string { return categories[c].toggleKey }

// Tracked reports whether the category has a ledger entry.
func (c Category) Tracked() bool { return categories[c].ledgerKey != "" }

var slotNames = map[Slot]string{
	SlotHead:   "head",
	SlotCape:   "cape",
	SlotAmulet: "amulet",
	SlotWeapon: "weapon",
	SlotBody:   "body",
	SlotShield: "shield",
	SlotLegs:   "legs",
	SlotGloves: "gloves",
	SlotBoots:  "boots",
	SlotRing:   "ring",
	SlotAmmo:   "ammo",
}

func (s Slot) String() string {
	if name, ok := slotNames[s]; ok {
		return name
	}
	return fmt.Sprintf("slot%d", int(s))
}

// ParseSlot accepts a slot name ("amulet", "neck" is an alias) or its index.
func ParseSlot(s string) (Slot, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "neck" {
		return SlotAmulet, nil
	}
	for slot, name := range slotNames {
		if name == s {
			return slot, nil
		}
	}
	if idx, err := strconv.Atoi(s); err == nil {
		if _, ok := slotNames[Slot(idx)]; ok {
			return Slot(idx), nil
		}
	}
	return 0, fmt.Errorf("unknown equipment slot %q", s)
}
