package event

import (
	"time"

	"github.com/AkatukiSora/item-charges/internal/catalog"
)

// Kind is the type of a bridge log line.
type Kind int

const (
	KindUnknown Kind = iota
	KindChat
	KindTick
	KindEquipment
	KindGraphic
	KindDestroy
	KindConfig
)

var kindNames = map[Kind]string{
	KindChat:      "Chat",
	KindTick:      "Tick",
	KindEquipment: "Equipment",
	KindGraphic:   "Graphic",
	KindDestroy:   "Destroy",
	KindConfig:    "Config",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Event is one decoded bridge event. Only the fields of its Kind are set.
type Event struct {
	Kind Kind
	Time time.Time

	// Chat
	ChatType string
	Text     string

	// Tick and Destroy
	Tick int
	// Dialog text visible during the tick.
	Primary   string
	Secondary string

	Equipment map[catalog.Slot]catalog.ItemID

	LocalPlayer bool
	GraphicID   int

	ItemName string

	Group string
	Key   string
	Value string
}
