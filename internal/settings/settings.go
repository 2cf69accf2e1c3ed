// Package settings exposes the typed view of the "itemCharge" config group.
package settings

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/persistence"
)

const Group = "itemCharge"

const (
	KeyShowInfoboxes       = "showInfoboxes"
	KeyRecoilNotification  = "recoilNotification"
	KeyDodgyNotification   = "dodgyNotification"
	KeyBindingNotification = "bindingNotification"
	KeyLowWarning          = "lowWarning"
	KeyVeryLowWarning      = "veryLowWarning"
	KeyLowWarningColor     = "lowWarningColor"
	KeyVeryLowWarningColor = "veryLowWarningColor"
)

var boolDefaults = map[string]bool{
	KeyShowInfoboxes:             true,
	KeyRecoilNotification:        false,
	KeyDodgyNotification:         true,
	KeyBindingNotification:       true,
	"showTeleportCharges":        true,
	"showDodgyCount":             true,
	"showAbyssalBraceletCharges": true,
	"showSlayerBracelets":        true,
	"showBindingNecklaceCharges": true,
	"showChronicleCharges":       true,
}

var intDefaults = map[string]int{
	KeyLowWarning:     2,
	KeyVeryLowWarning: 1,
}

var colorDefaults = map[string]color.NRGBA{
	KeyLowWarningColor:     {R: 0xff, G: 0xff, A: 0xff},
	KeyVeryLowWarningColor: {R: 0xff, A: 0xff},
}

// Thresholds drive the badge colour. A value at or below VeryLow uses
// VeryLowColor, at or below Low uses LowColor.
type Thresholds struct {
	Low          int
	VeryLow      int
	LowColor     color.NRGBA
	VeryLowColor color.NRGBA
}

type Settings struct {
	repo persistence.SettingsRepository
}

func New(repo persistence.SettingsRepository) *Settings {
	return &Settings{repo: repo}
}

// Int reads an integer key, returning def when the key is absent.
func (s *Settings) Int(ctx context.Context, key string, def int) (int, error) {
	raw, ok, err := s.repo.Get(ctx, Group, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def, fmt.Errorf("setting %s.%s is not an integer: %w", Group, key, err)
	}
	return n, nil
}

func (s *Settings) SetInt(ctx context.Context, key string, n int) error {
	return s.repo.Set(ctx, Group, key, strconv.Itoa(n))
}

// Bool reads a toggle. Unreadable values fall back to the default so a broken
// store only hides badges instead of failing the event.
func (s *Settings) Bool(ctx context.Context, key string) bool {
	def := boolDefaults[key]
	raw, ok, err := s.repo.Get(ctx, Group, key)
	if err != nil {
		slog.Error("read toggle", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("toggle is not a boolean", "key", key, "value", raw)
		return def
	}
	return v
}

func (s *Settings) SetBool(ctx context.Context, key string, v bool) error {
	return s.repo.Set(ctx, Group, key, strconv.FormatBool(v))
}

func (s *Settings) ShowInfoboxes(ctx context.Context) bool {
	return s.Bool(ctx, KeyShowInfoboxes)
}

// ShowCategory reports the display toggle of cat. Categories without a
// toggle are never shown.
func (s *Settings) ShowCategory(ctx context.Context, cat catalog.Category) bool {
	key := cat.ToggleKey()
	if key == "" {
		return false
	}
	return s.Bool(ctx, key)
}

func (s *Settings) Color(ctx context.Context, key string) color.NRGBA {
	def := colorDefaults[key]
	raw, ok, err := s.repo.Get(ctx, Group, key)
	if err != nil {
		slog.Error("read colour", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}
	c, err := ParseColor(raw)
	if err != nil {
		slog.Warn("invalid colour setting", "key", key, "value", raw, "error", err)
		return def
	}
	return c
}

func (s *Settings) SetColor(ctx context.Context, key string, c color.NRGBA) error {
	return s.repo.Set(ctx, Group, key, FormatColor(c))
}

func (s *Settings) Thresholds(ctx context.Context) Thresholds {
	t := Thresholds{
		LowColor:     s.Color(ctx, KeyLowWarningColor),
		VeryLowColor: s.Color(ctx, KeyVeryLowWarningColor),
	}
	var err error
	if t.Low, err = s.Int(ctx, KeyLowWarning, intDefaults[KeyLowWarning]); err != nil {
		slog.Warn("read low warning", "error", err)
	}
	if t.VeryLow, err = s.Int(ctx, KeyVeryLowWarning, intDefaults[KeyVeryLowWarning]); err != nil {
		slog.Warn("read very low warning", "error", err)
	}
	return t
}

// OnChange calls fn with the key of every change in the itemCharge group.
func (s *Settings) OnChange(fn func(key string)) func() {
	return s.repo.Subscribe(func(c persistence.Change) {
		if c.Group == Group {
			fn(c.Key)
		}
	})
}

// IsToggle reports whether key is a display or notification toggle.
func IsToggle(key string) bool {
	_, ok := boolDefaults[key]
	return ok
}

// ParseColor accepts #RRGGBB or #AARRGGBB.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	switch len(s) {
	case 6:
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	case 8:
		return color.NRGBA{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("parse colour %q: want 6 or 8 hex digits", s)
	}
}

func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}
