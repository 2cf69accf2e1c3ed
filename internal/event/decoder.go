// Package event decodes the line-oriented log written by the client bridge.
//
// Every line has the shape
//
//	2026.02.21 00:18:53 Kind - payload
//
// Dialog lines carry no event of their own; their text is attached to the
// next Tick line.
package event

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AkatukiSora/item-charges/internal/catalog"
)

var reLine = regexp.MustCompile(`^(\d{4}\.\d{2}\.\d{2} \d{2}:\d{2}:\d{2}) (\w+)\s+-\s?(.*)$`)

const timeLayout = "2006.01.02 15:04:05"

// Decoder holds the dialog text buffered since the last tick.
type Decoder struct {
	state         State
	lastTimestamp time.Time
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodeLine returns the event carried by line. ok is false for blank,
// malformed and dialog lines.
func (d *Decoder) DecodeLine(line string) (Event, bool) {
	m := reLine.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return Event{}, false
	}
	ts, err := time.Parse(timeLayout, m[1])
	if err != nil {
		return Event{}, false
	}
	d.lastTimestamp = ts
	payload := m[3]

	switch m[2] {
	case "Chat":
		msgType, text, ok := strings.Cut(payload, " - ")
		if !ok {
			return Event{}, false
		}
		return Event{Kind: KindChat, Time: ts, ChatType: strings.TrimSpace(msgType), Text: text}, true

	case "Dialog":
		which, text, ok := strings.Cut(payload, " - ")
		if !ok {
			return Event{}, false
		}
		switch strings.TrimSpace(which) {
		case "primary":
			d.state.Primary = text
		case "secondary":
			d.state.Secondary = text
		}
		return Event{}, false

	case "Tick":
		tick, err := strconv.Atoi(strings.TrimSpace(payload))
		if err != nil {
			return Event{}, false
		}
		ev := Event{Kind: KindTick, Time: ts, Tick: tick, Primary: d.state.Primary, Secondary: d.state.Secondary}
		d.state = State{}
		return ev, true

	case "Equipment":
		items, ok := parseEquipment(payload)
		if !ok {
			return Event{}, false
		}
		return Event{Kind: KindEquipment, Time: ts, Equipment: items}, true

	case "Graphic":
		actor, id, ok := strings.Cut(strings.TrimSpace(payload), " ")
		if !ok || (actor != "local" && actor != "other") {
			return Event{}, false
		}
		graphic, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return Event{}, false
		}
		return Event{Kind: KindGraphic, Time: ts, LocalPlayer: actor == "local", GraphicID: graphic}, true

	case "Destroy":
		rawTick, name, ok := strings.Cut(payload, " - ")
		if !ok {
			return Event{}, false
		}
		tick, err := strconv.Atoi(strings.TrimSpace(rawTick))
		if err != nil {
			return Event{}, false
		}
		return Event{Kind: KindDestroy, Time: ts, Tick: tick, ItemName: strings.TrimSpace(name)}, true

	case "Config":
		ref, value, ok := strings.Cut(payload, "=")
		if !ok {
			return Event{}, false
		}
		group, key, ok := strings.Cut(strings.TrimSpace(ref), ".")
		if !ok || group == "" || key == "" {
			return Event{}, false
		}
		return Event{Kind: KindConfig, Time: ts, Group: group, Key: key, Value: strings.TrimSpace(value)}, true
	}
	return Event{}, false
}

func parseEquipment(payload string) (map[catalog.Slot]catalog.ItemID, bool) {
	items := make(map[catalog.Slot]catalog.ItemID)
	for _, field := range strings.Fields(payload) {
		name, rawID, ok := strings.Cut(field, "=")
		if !ok {
			return nil, false
		}
		slot, err := catalog.ParseSlot(name)
		if err != nil {
			return nil, false
		}
		id, err := strconv.Atoi(rawID)
		if err != nil {
			return nil, false
		}
		items[slot] = catalog.ItemID(id)
	}
	return items, true
}

// LastTimestamp is the time of the last well-formed line.
func (d *Decoder) LastTimestamp() time.Time { return d.lastTimestamp }

// DecodeReader decodes every line of r with a fresh decoder.
func DecodeReader(r io.Reader) ([]Event, error) {
	d := NewDecoder()
	var out []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		if ev, ok := d.DecodeLine(scanner.Text()); ok {
			out = append(out, ev)
		}
	}
	return out, scanner.Err()
}
