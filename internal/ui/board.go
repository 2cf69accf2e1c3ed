package ui

import (
	"image/color"
	"sort"
	"sync"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/settings"
	"github.com/AkatukiSora/item-charges/internal/tracker"
)

// Board holds the badges currently on screen. It is written by the tracker
// from the service goroutine and read by the view on the Fyne thread.
type Board struct {
	mu       sync.Mutex
	badges   map[tracker.BadgeKey]tracker.Badge
	onChange func()
}

var _ tracker.BadgeStore = (*Board)(nil)

func NewBoard() *Board {
	return &Board{badges: make(map[tracker.BadgeKey]tracker.Badge)}
}

// SetOnChange registers fn to run after every mutation. fn is called outside
// the board lock.
func (b *Board) SetOnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Add shows badge, replacing any badge with the same key.
func (b *Board) Add(badge tracker.Badge) {
	b.mu.Lock()
	b.badges[badge.Key] = badge
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (b *Board) RemoveWhere(match func(tracker.BadgeKey) bool) {
	b.mu.Lock()
	removed := 0
	for k := range b.badges {
		if match(k) {
			delete(b.badges, k)
			removed++
		}
	}
	fn := b.onChange
	b.mu.Unlock()
	if removed > 0 && fn != nil {
		fn()
	}
}

// Badges returns the badges in display order: by category, then slot.
func (b *Board) Badges() []tracker.Badge {
	b.mu.Lock()
	out := make([]tracker.Badge, 0, len(b.badges))
	for _, badge := range b.badges {
		out = append(out, badge)
	}
	b.mu.Unlock()

	rank := make(map[catalog.Category]int)
	for i, c := range catalog.Displayable() {
		rank[c] = i
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rank[out[i].Key.Category], rank[out[j].Key.Category]
		if ri != rj {
			return ri < rj
		}
		return out[i].Key.Slot < out[j].Key.Slot
	})
	return out
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.badges)
}

var chargeNormalColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// ColorFor picks the text colour of a charge count. The very-low threshold
// wins when both apply.
func ColorFor(charges int, th settings.Thresholds) color.NRGBA {
	switch {
	case charges <= th.VeryLow:
		return th.VeryLowColor
	case charges <= th.Low:
		return th.LowColor
	default:
		return chargeNormalColor
	}
}
