package itemdb

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkatukiSora/item-charges/internal/catalog"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestName(t *testing.T) {
	t.Parallel()
	db := New("")
	assert.Equal(t, "Dodgy necklace", db.Name(catalog.DodgyNecklace))
	assert.Equal(t, "Amulet of glory(4)", db.Name(1712))
	assert.Equal(t, "Item 4151", db.Name(4151))
}

func TestIconFromDirectoryIsCached(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "21143.png")
	red := color.NRGBA{R: 0xff, A: 0xff}
	writePNG(t, path, red)

	db := New(dir)
	img := db.Icon(catalog.DodgyNecklace)
	require.NotNil(t, img)
	assert.Equal(t, 4, img.Bounds().Dx())

	// Served from cache even after the file is gone.
	require.NoError(t, os.Remove(path))
	assert.Equal(t, 4, db.Icon(catalog.DodgyNecklace).Bounds().Dx())

	db.Invalidate()
	assert.Equal(t, iconSize, db.Icon(catalog.DodgyNecklace).Bounds().Dx())
}

func TestIconPlaceholder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1712.png"), []byte("not a png"), 0o600))

	db := New(dir)
	img := db.Icon(1712)
	require.NotNil(t, img)
	assert.Equal(t, iconSize, img.Bounds().Dx())

	r, g, b, a := img.At(iconSize/2, iconSize/2).RGBA()
	tint := categoryTints[catalog.CategoryTeleport]
	assert.Equal(t, uint32(tint.R)*0x101, r)
	assert.Equal(t, uint32(tint.G)*0x101, g)
	assert.Equal(t, uint32(tint.B)*0x101, b)
	assert.Equal(t, uint32(0xffff), a)

	_, _, _, a = img.At(0, 0).RGBA()
	assert.Zero(t, a)
}
