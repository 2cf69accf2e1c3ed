package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var (
	uiMutedTextColor  = color.NRGBA{R: 0xB8, G: 0xAF, B: 0xA3, A: 0xFF}
	uiCardBorderColor = color.NRGBA{R: 0x9C, G: 0x92, B: 0x8A, A: 0x2E}
	uiSurfaceTint     = color.NRGBA{R: 0x9A, G: 0x86, B: 0x72, A: 0x12}
	uiBadgeShade      = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x8C}
	dividerBaseColor  = color.NRGBA{R: 0xB5, G: 0xAF, B: 0xAC, A: 0xFF}
)

const (
	badgeIconSize            = 36
	dividerFadeStartFromEdge = 0.30
	dividerFadeEndFromEdge   = 0.10
)

func newSectionCard(content fyne.CanvasObject) fyne.CanvasObject {
	bg := canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	bg.CornerRadius = 8

	tint := canvas.NewRectangle(uiSurfaceTint)
	tint.CornerRadius = 8

	border := canvas.NewRectangle(color.Transparent)
	border.CornerRadius = 8
	border.StrokeColor = uiCardBorderColor
	border.StrokeWidth = 1

	return container.NewStack(bg, tint, border, container.NewPadded(content))
}

// newChargeText is the count drawn over the bottom-right of a badge icon.
func newChargeText(text string, c color.Color) *canvas.Text {
	t := canvas.NewText(text, c)
	t.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	t.Alignment = fyne.TextAlignTrailing
	t.TextSize = theme.TextSize() * 0.95
	return t
}

func newSubtleText(content string) *canvas.Text {
	t := canvas.NewText(content, uiMutedTextColor)
	t.TextSize = theme.TextSize() * 0.86
	return t
}

func newSectionTitle(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	if n, ok := c.(color.NRGBA); ok {
		return n
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func newCenteredEmptyState(message string) fyne.CanvasObject {
	label := widget.NewLabel(message)
	label.Alignment = fyne.TextAlignCenter
	label.Wrapping = fyne.TextWrapWord

	card := newSectionCard(container.NewPadded(label))
	widthLock := canvas.NewRectangle(color.Transparent)
	widthLock.SetMinSize(fyne.NewSize(260, 0))

	return container.NewCenter(container.NewStack(widthLock, card))
}

func newSectionDivider() fyne.CanvasObject {
	r := canvas.NewRasterWithPixels(func(x, _, w, _ int) color.Color {
		if w <= 1 {
			return dividerBaseColor
		}
		t := float32(x) / float32(w-1)
		edge := min(t, 1-t)
		alpha := float32(1)
		if edge <= dividerFadeEndFromEdge {
			alpha = 0
		} else if edge < dividerFadeStartFromEdge {
			alpha = (edge - dividerFadeEndFromEdge) / (dividerFadeStartFromEdge - dividerFadeEndFromEdge)
		}
		c := dividerBaseColor
		c.A = uint8(float32(c.A) * alpha)
		return c
	})
	r.SetMinSize(fyne.NewSize(0, 1))
	return r
}
