package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// hudTheme is the dark theme of the overlay window. Badge text sits on item
// icons, so the background is darker than fyne's default.
type hudTheme struct{}

var _ fyne.Theme = (*hudTheme)(nil)

func newHUDTheme() fyne.Theme {
	return hudTheme{}
}

func (t hudTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x1B, G: 0x1A, B: 0x17, A: 0xFF}
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xC8, G: 0x9B, B: 0x3C, A: 0xFF}
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0xE0, G: 0xB8, B: 0x5A, A: 0xAA}
	case theme.ColorNameHover:
		return color.NRGBA{R: 0x9B, G: 0x8D, B: 0x7F, A: 0x2A}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xC8, G: 0x9B, B: 0x3C, A: 0x44}
	case theme.ColorNameInputBackground:
		return color.NRGBA{R: 0x2B, G: 0x28, B: 0x22, A: 0xFF}
	case theme.ColorNameOverlayBackground:
		return color.NRGBA{R: 0x2E, G: 0x2A, B: 0x24, A: 0xFF}
	default:
		return theme.DarkTheme().Color(name, theme.VariantDark)
	}
}

func (t hudTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DarkTheme().Font(style)
}

func (t hudTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DarkTheme().Icon(name)
}

func (t hudTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNamePadding {
		return 3
	}
	return theme.DarkTheme().Size(name)
}
