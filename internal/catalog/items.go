package catalog

// Entry describes one item identity. Charges is the count encoded in the
// identity itself (teleport jewellery tiers); 0 means the count lives in the
// ledger under the entry's category.
type Entry struct {
	ID       ItemID
	Name     string
	Category Category
	Charges  int
}

// Single-identity items whose charges are only known from the ledger.
const (
	DodgyNecklace       ItemID = 21143
	BraceletOfSlaughter ItemID = 21183
	ExpeditiousBracelet ItemID = 21177
	BindingNecklace     ItemID = 5521
	RingOfRecoil        ItemID = 2550
	XericsTalisman      ItemID = 13393
	SoulBearer          ItemID = 19634
	Chronicle           ItemID = 13660
)

var entries = indexEntries([]Entry{
	// Teleport jewellery, charges encoded in the identity.
	{ID: 11978, Name: "Amulet of glory(6)", Category: CategoryTeleport, Charges: 6},
	{ID: 11976, Name: "Amulet of glory(5)", Category: CategoryTeleport, Charges: 5},
	{ID: 1712, Name: "Amulet of glory(4)", Category: CategoryTeleport, Charges: 4},
	{ID: 1710, Name: "Amulet of glory(3)", Category: CategoryTeleport, Charges: 3},
	{ID: 1708, Name: "Amulet of glory(2)", Category: CategoryTeleport, Charges: 2},
	{ID: 1706, Name: "Amulet of glory(1)", Category: CategoryTeleport, Charges: 1},
	{ID: 3853, Name: "Games necklace(8)", Category: CategoryTeleport, Charges: 8},
	{ID: 3855, Name: "Games necklace(7)", Category: CategoryTeleport, Charges: 7},
	{ID: 3857, Name: "Games necklace(6)", Category: CategoryTeleport, Charges: 6},
	{ID: 3859, Name: "Games necklace(5)", Category: CategoryTeleport, Charges: 5},
	{ID: 3861, Name: "Games necklace(4)", Category: CategoryTeleport, Charges: 4},
	{ID: 3863, Name: "Games necklace(3)", Category: CategoryTeleport, Charges: 3},
	{ID: 3865, Name: "Games necklace(2)", Category: CategoryTeleport, Charges: 2},
	{ID: 3867, Name: "Games necklace(1)", Category: CategoryTeleport, Charges: 1},
	{ID: 2552, Name: "Ring of dueling(8)", Category: CategoryTeleport, Charges: 8},
	{ID: 2554, Name: "Ring of dueling(7)", Category: CategoryTeleport, Charges: 7},
	{ID: 2556, Name: "Ring of dueling(6)", Category: CategoryTeleport, Charges: 6},
	{ID: 2558, Name: "Ring of dueling(5)", Category: CategoryTeleport, Charges: 5},
	{ID: 2560, Name: "Ring of dueling(4)", Category: CategoryTeleport, Charges: 4},
	{ID: 2562, Name: "Ring of dueling(3)", Category: CategoryTeleport, Charges: 3},
	{ID: 2564, Name: "Ring of dueling(2)", Category: CategoryTeleport, Charges: 2},
	{ID: 2566, Name: "Ring of dueling(1)", Category: CategoryTeleport, Charges: 1},
	{ID: 11968, Name: "Skills necklace(6)", Category: CategoryTeleport, Charges: 6},
	{ID: 11970, Name: "Skills necklace(5)", Category: CategoryTeleport, Charges: 5},
	{ID: 11105, Name: "Skills necklace(4)", Category: CategoryTeleport, Charges: 4},
	{ID: 11107, Name: "Skills necklace(3)", Category: CategoryTeleport, Charges: 3},
	{ID: 11109, Name: "Skills necklace(2)", Category: CategoryTeleport, Charges: 2},
	{ID: 11111, Name: "Skills necklace(1)", Category: CategoryTeleport, Charges: 1},
	{ID: 11972, Name: "Combat bracelet(6)", Category: CategoryTeleport, Charges: 6},
	{ID: 11974, Name: "Combat bracelet(5)", Category: CategoryTeleport, Charges: 5},
	{ID: 11118, Name: "Combat bracelet(4)", Category: CategoryTeleport, Charges: 4},
	{ID: 11120, Name: "Combat bracelet(3)", Category: CategoryTeleport, Charges: 3},
	{ID: 11122, Name: "Combat bracelet(2)", Category: CategoryTeleport, Charges: 2},
	{ID: 11124, Name: "Combat bracelet(1)", Category: CategoryTeleport, Charges: 1},
	{ID: 13102, Name: "Teleport crystal(5)", Category: CategoryTeleport, Charges: 5},
	{ID: 6099, Name: "Teleport crystal(4)", Category: CategoryTeleport, Charges: 4},
	{ID: 6100, Name: "Teleport crystal(3)", Category: CategoryTeleport, Charges: 3},
	{ID: 6101, Name: "Teleport crystal(2)", Category: CategoryTeleport, Charges: 2},
	{ID: 6102, Name: "Teleport crystal(1)", Category: CategoryTeleport, Charges: 1},

	{ID: 11095, Name: "Abyssal bracelet(5)", Category: CategoryAbyssalBracelet, Charges: 5},
	{ID: 11097, Name: "Abyssal bracelet(4)", Category: CategoryAbyssalBracelet, Charges: 4},
	{ID: 11099, Name: "Abyssal bracelet(3)", Category: CategoryAbyssalBracelet, Charges: 3},
	{ID: 11101, Name: "Abyssal bracelet(2)", Category: CategoryAbyssalBracelet, Charges: 2},
	{ID: 11103, Name: "Abyssal bracelet(1)", Category: CategoryAbyssalBracelet, Charges: 1},

	// Ledger backed.
	{ID: XericsTalisman, Name: "Xeric's talisman", Category: CategoryXericTalisman},
	{ID: SoulBearer, Name: "Soul bearer", Category: CategorySoulBearer},
	{ID: Chronicle, Name: "Chronicle", Category: CategoryChronicle},
})

// legacy maps the single-identity items that predate the entry table.
var legacy = map[ItemID]Category{
	DodgyNecklace:       CategoryDodgyNecklace,
	BraceletOfSlaughter: CategoryBraceletOfSlaughter,
	ExpeditiousBracelet: CategoryExpeditiousBracelet,
	BindingNecklace:     CategoryBindingNecklace,
}

var names = map[ItemID]string{
	DodgyNecklace:       "Dodgy necklace",
	BraceletOfSlaughter: "Bracelet of slaughter",
	ExpeditiousBracelet: "Expeditious bracelet",
	BindingNecklace:     "Binding necklace",
	RingOfRecoil:        "Ring of recoil",
}

func indexEntries(list []Entry) map[ItemID]Entry {
	out := make(map[ItemID]Entry, len(list))
	for _, e := range list {
		if _, dup := out[e.ID]; dup {
			panic("catalog: duplicate item id")
		}
		out[e.ID] = e
	}
	return out
}

// Lookup returns the catalog entry for id.
func Lookup(id ItemID) (Entry, bool) {
	e, ok := entries[id]
	return e, ok
}

// Legacy returns the category of a single-identity ledger item.
func Legacy(id ItemID) (Category, bool) {
	c, ok := legacy[id]
	return c, ok
}

// CategoryOf resolves id through both tables.
func CategoryOf(id ItemID) (Category, bool) {
	if e, ok := entries[id]; ok {
		return e.Category, true
	}
	return Legacy(id)
}

// Name returns the display name of a known item, or "" when unknown.
func Name(id ItemID) string {
	if e, ok := entries[id]; ok {
		return e.Name
	}
	return names[id]
}
