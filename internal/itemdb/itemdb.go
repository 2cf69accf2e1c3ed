// Package itemdb provides item names and icons for badges.
package itemdb

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/AkatukiSora/item-charges/internal/catalog"
)

const (
	iconCacheSize = 128
	// Icons dropped into the directory while the app runs show up after this.
	iconCacheTTL = 10 * time.Minute
	iconSize     = 32
)

// DB resolves names from the catalog and icons from <dir>/<id>.png.
type DB struct {
	dir   string
	icons *expirable.LRU[catalog.ItemID, image.Image]
}

func New(iconDir string) *DB {
	return &DB{
		dir:   iconDir,
		icons: expirable.NewLRU[catalog.ItemID, image.Image](iconCacheSize, nil, iconCacheTTL),
	}
}

func (db *DB) Name(id catalog.ItemID) string {
	if name := catalog.Name(id); name != "" {
		return name
	}
	return fmt.Sprintf("Item %d", int(id))
}

// Icon returns the icon of id, or a placeholder tinted by category when no
// file is available.
func (db *DB) Icon(id catalog.ItemID) image.Image {
	if img, ok := db.icons.Get(id); ok {
		return img
	}
	img, err := db.load(id)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("load item icon", "id", int(id), "error", err)
		}
		img = placeholder(id)
	}
	db.icons.Add(id, img)
	return img
}

func (db *DB) load(id catalog.ItemID) (image.Image, error) {
	if db.dir == "" {
		return nil, os.ErrNotExist
	}
	f, err := os.Open(filepath.Join(db.dir, fmt.Sprintf("%d.png", int(id))))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %d: %w", int(id), err)
	}
	return img, nil
}

// Invalidate drops cached icons, e.g. after the icon directory changed.
func (db *DB) Invalidate() {
	db.icons.Purge()
}

var categoryTints = map[catalog.Category]color.NRGBA{
	catalog.CategoryTeleport:            {R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
	catalog.CategoryDodgyNecklace:       {R: 0x84, G: 0xcc, B: 0x16, A: 0xff},
	catalog.CategoryAbyssalBracelet:     {R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff},
	catalog.CategoryBraceletOfSlaughter: {R: 0xdc, G: 0x26, B: 0x26, A: 0xff},
	catalog.CategoryExpeditiousBracelet: {R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff},
	catalog.CategoryBindingNecklace:     {R: 0x06, G: 0xb6, B: 0xd4, A: 0xff},
	catalog.CategoryChronicle:           {R: 0xa1, G: 0x62, B: 0x07, A: 0xff},
}

func placeholder(id catalog.ItemID) image.Image {
	tint := color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	if cat, ok := catalog.CategoryOf(id); ok {
		if c, ok := categoryTints[cat]; ok {
			tint = c
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			// 2px transparent margin so placeholders read as icons.
			if x < 2 || y < 2 || x >= iconSize-2 || y >= iconSize-2 {
				continue
			}
			img.SetNRGBA(x, y, tint)
		}
	}
	return img
}
