package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/layout"

	"github.com/AkatukiSora/item-charges/internal/settings"
	"github.com/AkatukiSora/item-charges/internal/tracker"
)

// badgeStripView renders the board as a wrapping row of icon tiles.
type badgeStripView struct {
	root *fyne.Container
}

func newBadgeStripView() *badgeStripView {
	return &badgeStripView{root: container.NewMax()}
}

func (v *badgeStripView) CanvasObject() fyne.CanvasObject {
	return v.root
}

// Update rebuilds the strip. Must run on the Fyne thread.
func (v *badgeStripView) Update(badges []tracker.Badge, th settings.Thresholds) {
	var content fyne.CanvasObject
	if len(badges) == 0 {
		content = newCenteredEmptyState(lang.X("hud.empty", "No charged items equipped."))
	} else {
		tiles := make([]fyne.CanvasObject, 0, len(badges))
		for _, b := range badges {
			tiles = append(tiles, newBadgeTile(b, th))
		}
		content = container.NewVScroll(container.NewGridWrap(fyne.NewSize(badgeIconSize+28, badgeIconSize+34), tiles...))
	}
	v.root.Objects = []fyne.CanvasObject{content}
	v.root.Refresh()
}

func newBadgeTile(b tracker.Badge, th settings.Thresholds) fyne.CanvasObject {
	shade := canvas.NewRectangle(uiBadgeShade)
	shade.CornerRadius = 6

	var icon fyne.CanvasObject
	if b.Icon != nil {
		img := canvas.NewImageFromImage(b.Icon)
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScalePixels
		img.SetMinSize(fyne.NewSize(badgeIconSize, badgeIconSize))
		icon = img
	} else {
		icon = layout.NewSpacer()
	}

	count := newChargeText(strconv.Itoa(b.Charges), ColorFor(b.Charges, th))
	overlay := container.NewVBox(layout.NewSpacer(), count)

	name := newSubtleText(b.Name)
	name.Alignment = fyne.TextAlignCenter
	name.TextSize = name.TextSize * 0.8

	tile := container.NewStack(shade, container.NewPadded(icon), container.NewPadded(overlay))
	return container.NewBorder(nil, name, nil, nil, tile)
}
