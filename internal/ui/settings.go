package ui

import (
	"context"
	"image/color"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/widget"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/settings"
)

// SettingsTab edits the itemCharge group and the followed log path. Every
// write goes through the store, so the tracker sees it as a config change.
type SettingsTab struct {
	ctx          context.Context
	settings     *settings.Settings
	win          fyne.Window
	LogPath      string
	OnPathChange func(string)
	onError      func(error)
}

// NewSettingsTab creates the settings tab
func NewSettingsTab(
	ctx context.Context,
	s *settings.Settings,
	currentPath string,
	win fyne.Window,
	onPathChange func(string),
	onError func(error),
) fyne.CanvasObject {
	if onError == nil {
		onError = func(err error) { slog.Error("save setting", "error", err) }
	}
	st := &SettingsTab{
		ctx:          ctx,
		settings:     s,
		win:          win,
		LogPath:      currentPath,
		OnPathChange: onPathChange,
		onError:      onError,
	}
	return st.build()
}

func (st *SettingsTab) build() fyne.CanvasObject {
	title := newSectionTitle(lang.X("settings.title", "Settings"))

	form := container.NewVBox(
		title,
		newSectionDivider(),
		st.buildLogPath(),
		newSectionDivider(),
		newSectionTitle(lang.X("settings.display.title", "Infoboxes")),
		st.buildDisplayToggles(),
		newSectionDivider(),
		newSectionTitle(lang.X("settings.notifications.title", "Notifications")),
		st.buildNotificationToggles(),
		newSectionDivider(),
		newSectionTitle(lang.X("settings.thresholds.title", "Warnings")),
		st.buildThresholds(),
	)
	return container.NewVScroll(container.NewPadded(form))
}

func (st *SettingsTab) buildLogPath() fyne.CanvasObject {
	pathLabel := widget.NewLabel(lang.X("settings.log_path_label", "Bridge log file:"))
	pathEntry := widget.NewEntry()
	pathEntry.SetPlaceHolder(lang.X("settings.log_path_placeholder", "Path to item_charges_*.log"))
	pathEntry.SetText(st.LogPath)

	apply := func(path string) {
		st.LogPath = path
		if st.OnPathChange != nil {
			st.OnPathChange(path)
		}
	}

	browseBtn := widget.NewButton(lang.X("settings.browse", "Browse..."), func() {
		dialog.ShowFileOpen(func(f fyne.URIReadCloser, err error) {
			if err != nil || f == nil {
				return
			}
			_ = f.Close()
			path := f.URI().Path()
			pathEntry.SetText(path)
			apply(path)
		}, st.win)
	})

	applyBtn := widget.NewButton(lang.X("settings.apply", "Apply"), func() {
		apply(pathEntry.Text)
	})
	applyBtn.Importance = widget.HighImportance

	return container.NewVBox(pathLabel, container.NewBorder(nil, nil, nil, container.NewHBox(browseBtn, applyBtn), pathEntry))
}

// toggleLabel names the display toggle of a category.
func toggleLabel(key string) string {
	switch key {
	case "showTeleportCharges":
		return lang.X("settings.toggle.teleport", "Show teleport jewellery charges")
	case "showDodgyCount":
		return lang.X("settings.toggle.dodgy", "Show dodgy necklace charges")
	case "showAbyssalBraceletCharges":
		return lang.X("settings.toggle.abyssal", "Show abyssal bracelet charges")
	case "showSlayerBracelets":
		return lang.X("settings.toggle.slayer", "Show slayer bracelet charges")
	case "showBindingNecklaceCharges":
		return lang.X("settings.toggle.binding", "Show binding necklace charges")
	case "showChronicleCharges":
		return lang.X("settings.toggle.chronicle", "Show chronicle charges")
	default:
		return key
	}
}

func (st *SettingsTab) buildDisplayToggles() fyne.CanvasObject {
	rows := []fyne.CanvasObject{
		st.newToggle(settings.KeyShowInfoboxes, lang.X("settings.toggle.infoboxes", "Show infoboxes")),
	}
	seen := make(map[string]bool)
	for _, cat := range catalog.Displayable() {
		key := cat.ToggleKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, st.newToggle(key, toggleLabel(key)))
	}
	return container.NewVBox(rows...)
}

func (st *SettingsTab) buildNotificationToggles() fyne.CanvasObject {
	return container.NewVBox(
		st.newToggle(settings.KeyRecoilNotification, lang.X("settings.notify.recoil", "Notify when a ring of recoil shatters")),
		st.newToggle(settings.KeyDodgyNotification, lang.X("settings.notify.dodgy", "Notify when a dodgy necklace crumbles")),
		st.newToggle(settings.KeyBindingNotification, lang.X("settings.notify.binding", "Notify when a binding necklace disintegrates")),
	)
}

// newToggle binds a check to a boolean key. The initial state is set before
// the callback so that building the panel writes nothing.
func (st *SettingsTab) newToggle(key, label string) fyne.CanvasObject {
	check := widget.NewCheck(label, nil)
	check.SetChecked(st.settings.Bool(st.ctx, key))
	check.OnChanged = func(on bool) {
		go st.save(func() error { return st.settings.SetBool(st.ctx, key, on) })
	}
	return check
}

func (st *SettingsTab) buildThresholds() fyne.CanvasObject {
	th := st.settings.Thresholds(st.ctx)

	lowEntry := newCountEntry(th.Low)
	veryLowEntry := newCountEntry(th.VeryLow)
	applyBtn := widget.NewButton(lang.X("settings.apply", "Apply"), func() {
		low, err1 := strconv.Atoi(lowEntry.Text)
		veryLow, err2 := strconv.Atoi(veryLowEntry.Text)
		if err1 != nil || err2 != nil {
			dialog.ShowError(errInvalidCount(), st.win)
			return
		}
		go st.save(func() error {
			if err := st.settings.SetInt(st.ctx, settings.KeyLowWarning, low); err != nil {
				return err
			}
			return st.settings.SetInt(st.ctx, settings.KeyVeryLowWarning, veryLow)
		})
	})

	form := widget.NewForm(
		widget.NewFormItem(lang.X("settings.threshold.low", "Low warning at"), lowEntry),
		widget.NewFormItem(lang.X("settings.threshold.very_low", "Very low warning at"), veryLowEntry),
		widget.NewFormItem(lang.X("settings.threshold.low_color", "Low colour"), st.newColorButton(settings.KeyLowWarningColor, th.LowColor)),
		widget.NewFormItem(lang.X("settings.threshold.very_low_color", "Very low colour"), st.newColorButton(settings.KeyVeryLowWarningColor, th.VeryLowColor)),
	)
	return container.NewVBox(form, container.NewHBox(applyBtn))
}

func newCountEntry(n int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(n))
	e.Validator = validation.NewRegexp(`^\d+$`, lang.X("settings.error.not_a_count", "Enter a whole number"))
	return e
}

func (st *SettingsTab) newColorButton(key string, current color.NRGBA) fyne.CanvasObject {
	swatch := canvas.NewRectangle(current)
	swatch.SetMinSize(fyne.NewSize(28, 18))
	swatch.CornerRadius = 4

	btn := widget.NewButton(lang.X("settings.pick_color", "Pick..."), func() {
		picker := dialog.NewColorPicker(
			lang.X("settings.pick_color.title", "Warning colour"),
			lang.X("settings.pick_color.message", "Choose the colour of the charge count"),
			func(c color.Color) {
				n := toNRGBA(c)
				swatch.FillColor = n
				swatch.Refresh()
				go st.save(func() error { return st.settings.SetColor(st.ctx, key, n) })
			},
			st.win,
		)
		picker.Advanced = true
		picker.SetColor(swatch.FillColor)
		picker.Show()
	})
	return container.NewHBox(swatch, btn)
}

func (st *SettingsTab) save(write func() error) {
	if err := write(); err != nil {
		st.onError(err)
	}
}
