package ui

import (
	"context"
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkatukiSora/item-charges/internal/application"
	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/itemdb"
	"github.com/AkatukiSora/item-charges/internal/persistence"
	"github.com/AkatukiSora/item-charges/internal/settings"
	"github.com/AkatukiSora/item-charges/internal/tracker"
)

func newTestApp(t *testing.T) (*App, *application.Service) {
	t.Helper()
	a := newApp(test.NewTempApp(t))
	svc := application.NewService(application.Deps{
		Repo:     persistence.NewMemoryRepository(),
		Badges:   a.Board(),
		Items:    itemdb.New(""),
		Notifier: a.Notifier(),
	})
	a.attach(svc, Options{LogDir: t.TempDir()})
	t.Cleanup(a.shutdown)
	return a, svc
}

// texts collects every canvas.Text under obj.
func texts(obj fyne.CanvasObject) []*canvas.Text {
	var out []*canvas.Text
	for _, o := range test.LaidOutObjects(obj) {
		if txt, ok := o.(*canvas.Text); ok {
			out = append(out, txt)
		}
	}
	return out
}

func findText(obj fyne.CanvasObject, s string) *canvas.Text {
	for _, txt := range texts(obj) {
		if txt.Text == s {
			return txt
		}
	}
	return nil
}

func TestBadgeStripShowsCountInThresholdColour(t *testing.T) {
	test.NewTempApp(t)
	v := newBadgeStripView()
	th := settings.Thresholds{Low: 2, VeryLow: 1, LowColor: color.NRGBA{R: 0xFF, G: 0xFF, A: 0xFF}, VeryLowColor: color.NRGBA{R: 0xFF, A: 0xFF}}

	v.Update([]tracker.Badge{
		{Key: tracker.BadgeKey{Category: catalog.CategoryDodgyNecklace, Slot: catalog.SlotAmulet}, Name: "Dodgy necklace", Charges: 1},
		{Key: tracker.BadgeKey{Category: catalog.CategoryTeleport, Slot: catalog.SlotRing}, Name: "Ring of dueling(8)", Charges: 8},
	}, th)

	one := findText(v.CanvasObject(), "1")
	require.NotNil(t, one)
	assert.Equal(t, th.VeryLowColor, one.Color)
	eight := findText(v.CanvasObject(), "8")
	require.NotNil(t, eight)
	assert.Equal(t, chargeNormalColor, eight.Color)
}

func TestBadgeStripEmptyState(t *testing.T) {
	test.NewTempApp(t)
	v := newBadgeStripView()
	v.Update(nil, settings.Thresholds{})
	require.Len(t, v.root.Objects, 1)
	_, isScroll := v.root.Objects[0].(*container.Scroll)
	assert.False(t, isScroll)
}

func TestAppReflectsImportedLines(t *testing.T) {
	a, svc := newTestApp(t)
	ctx := context.Background()
	path := "/logs/item_charges_ui.log"

	require.NoError(t, svc.ChangeLogFile(ctx, path))
	require.NoError(t, svc.ImportLines(ctx, path, []string{
		"2026.02.21 00:18:53 Chat - GAMEMESSAGE - Your dodgy necklace has 2 charges left.",
		"2026.02.21 00:18:54 Equipment - amulet=21143",
	}, 0, 100))

	require.Eventually(t, func() bool { return a.Board().Len() == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		txt := findText(a.badgeView.CanvasObject(), "2")
		return txt != nil && txt.Color == color.Color(color.NRGBA{R: 0xFF, G: 0xFF, A: 0xFF})
	}, time.Second, 10*time.Millisecond)
}

func TestAppStatusShowsNotices(t *testing.T) {
	a, svc := newTestApp(t)
	ctx := context.Background()
	path := "/logs/item_charges_notice.log"

	require.NoError(t, svc.ChangeLogFile(ctx, path))
	require.NoError(t, svc.ImportLines(ctx, path, []string{
		"2026.02.21 00:18:53 Chat - GAMEMESSAGE - Your Binding necklace has disintegrated.",
	}, 0, 100))

	require.Eventually(t, func() bool {
		return a.statusText.Text == "Your Binding necklace has disintegrated."
	}, time.Second, 10*time.Millisecond)
}

func TestSettingsToggleWritesStore(t *testing.T) {
	a, svc := newTestApp(t)
	ctx := context.Background()

	changes := make(chan string, 8)
	unsubscribe := svc.Settings().OnChange(func(key string) { changes <- key })
	defer unsubscribe()

	a.selectTab(tabSettings)
	select {
	case key := <-changes:
		t.Fatalf("building the settings tab wrote %q", key)
	default:
	}

	var infobox *widget.Check
	for _, obj := range test.LaidOutObjects(a.mainContent) {
		if c, ok := obj.(*widget.Check); ok && c.Text == "Show infoboxes" {
			infobox = c
			break
		}
	}
	require.NotNil(t, infobox)
	require.True(t, infobox.Checked)

	test.Tap(infobox)
	require.Eventually(t, func() bool { return !svc.Settings().ShowInfoboxes(ctx) }, time.Second, 10*time.Millisecond)
}

func TestChargesTabListsTrackedCategories(t *testing.T) {
	a, svc := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, svc.SetCharge(ctx, catalog.CategoryChronicle, 321))

	a.selectTab(tabCharges)

	var found bool
	for _, obj := range test.LaidOutObjects(a.mainContent) {
		if e, ok := obj.(*widget.Entry); ok && e.Text == "321" {
			found = true
		}
	}
	assert.True(t, found, "chronicle count not shown")
}
