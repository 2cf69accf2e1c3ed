package ui

import (
	"context"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/AkatukiSora/item-charges/internal/application"
	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/settings"
	"github.com/AkatukiSora/item-charges/internal/tracker"
)

const appID = "io.github.akatukisora.item-charges"

// Service is what the HUD needs from the application layer.
type Service interface {
	chargeService
	application.LogSink
	Settings() *settings.Settings
	LogPath() string
	Close() error
}

// AppMetadata is shown in the window title.
type AppMetadata struct {
	Version string
	Commit  string
}

// Options selects the bridge log to follow. An empty LogPath means the newest
// log in LogDir.
type Options struct {
	LogPath string
	LogDir  string
	Meta    AppMetadata
}

type appTab int

const (
	tabBadges appTab = iota
	tabCharges
	tabSettings
)

// App is the main application controller
type App struct {
	ctx      context.Context
	cancel   context.CancelFunc
	fyneApp  fyne.App
	win      fyne.Window
	board    *Board
	notifier *Notifier
	service  Service
	follower *application.Follower
	opts     Options

	closeOnce   sync.Once
	unsubscribe func()

	mu          sync.Mutex
	currentTab  appTab
	badgeView   *badgeStripView
	chargesView *chargesTabView
	mainContent *fyne.Container
	railPanel   *fyne.Container
	statusText  *widget.Label
}

// New creates the Fyne application with its board and notifier. The service
// is built from these and handed to Run.
func New() *App {
	a := app.NewWithID(appID)
	a.Settings().SetTheme(newHUDTheme())
	return newApp(a)
}

func newApp(fyneApp fyne.App) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:      ctx,
		cancel:   cancel,
		fyneApp:  fyneApp,
		board:    NewBoard(),
		notifier: NewNotifier(fyneApp),
	}
}

func (a *App) Board() *Board { return a.board }

func (a *App) Notifier() *Notifier { return a.notifier }

// Run shows the window and blocks until it is closed.
func (a *App) Run(service Service, opts Options) {
	if service == nil {
		return
	}
	a.attach(service, opts)
	a.win.ShowAndRun()
}

// attach builds the window and starts following the bridge log.
func (a *App) attach(service Service, opts Options) {
	a.service = service
	a.opts = opts

	win := a.fyneApp.NewWindow(lang.X("app.window.title", "Item Charges"))
	if opts.Meta.Version != "" {
		win.SetTitle(lang.X("app.window.title_version", "Item Charges {{.Version}}", map[string]any{"Version": opts.Meta.Version}))
	}
	win.Resize(fyne.NewSize(420, 360))
	win.SetMaster()
	a.win = win

	win.SetCloseIntercept(func() {
		a.shutdown()
		win.SetCloseIntercept(nil)
		win.Close()
	})
	win.SetContent(a.buildUI())

	a.board.SetOnChange(a.scheduleBadgeRefresh)
	a.notifier.SetOnNotice(a.doSetStatus)
	a.unsubscribe = service.Settings().OnChange(a.onSettingChanged)

	a.follower = application.NewFollower(a.ctx, service, a.onFollowEvent)
	a.follower.Follow(opts.LogPath, opts.LogDir)
	a.scheduleBadgeRefresh()
}

func (a *App) buildUI() fyne.CanvasObject {
	a.statusText = widget.NewLabel(lang.X("app.status.initializing", "Initializing..."))
	a.statusText.Wrapping = fyne.TextWrapEllipsis

	statusRow := container.NewBorder(nil, nil, widget.NewIcon(theme.InfoIcon()), nil, a.statusText)
	statusBar := newSectionCard(statusRow)

	a.badgeView = newBadgeStripView()
	a.chargesView = newChargesTabView(a.ctx, a.service, a.win, a.reportError)
	a.mainContent = container.NewMax()
	a.railPanel = container.NewMax()
	a.rebuildNavigation()
	a.doRefreshCurrentTab()

	return container.NewBorder(
		nil,
		container.NewPadded(statusBar),
		a.railPanel,
		nil,
		a.mainContent,
	)
}

func (a *App) rebuildNavigation() {
	if a.railPanel == nil {
		return
	}

	navItems := []struct {
		tab  appTab
		icon fyne.Resource
	}{
		{tab: tabBadges, icon: theme.HomeIcon()},
		{tab: tabCharges, icon: theme.ListIcon()},
		{tab: tabSettings, icon: theme.SettingsIcon()},
	}

	a.mu.Lock()
	current := a.currentTab
	a.mu.Unlock()

	buttons := make([]fyne.CanvasObject, 0, len(navItems))
	for _, item := range navItems {
		btn := widget.NewButtonWithIcon("", item.icon, func() {
			a.selectTab(item.tab)
		})
		if current == item.tab {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.LowImportance
		}
		buttons = append(buttons, btn)
	}

	railCard := newSectionCard(container.NewVBox(buttons...))
	railWidth := canvas.NewRectangle(color.Transparent)
	railWidth.SetMinSize(fyne.NewSize(44, 0))
	a.railPanel.Objects = []fyne.CanvasObject{container.NewStack(railWidth, railCard)}
	a.railPanel.Refresh()
}

func (a *App) selectTab(tab appTab) {
	a.mu.Lock()
	a.currentTab = tab
	a.mu.Unlock()
	a.rebuildNavigation()
	a.doRefreshCurrentTab()
	if tab == tabBadges {
		a.scheduleBadgeRefresh()
	}
}

// doRefreshCurrentTab swaps in the content of the selected tab.
// MUST be called from the Fyne main thread (or wrapped in fyne.Do).
func (a *App) doRefreshCurrentTab() {
	if a.mainContent == nil {
		return
	}
	a.mu.Lock()
	tab := a.currentTab
	a.mu.Unlock()

	var obj fyne.CanvasObject
	switch tab {
	case tabCharges:
		a.chargesView.Update()
		obj = a.chargesView.CanvasObject()
	case tabSettings:
		// Rebuilt each time so it shows values written from the bridge.
		obj = NewSettingsTab(a.ctx, a.service.Settings(), a.currentLogPath(), a.win, a.follower.Request, a.reportError)
	default:
		obj = a.badgeView.CanvasObject()
	}
	a.mainContent.Objects = []fyne.CanvasObject{obj}
	a.mainContent.Refresh()
}

func (a *App) currentLogPath() string {
	if a.follower != nil {
		if p := a.follower.Current(); p != "" {
			return p
		}
	}
	return a.service.LogPath()
}

// scheduleBadgeRefresh reads the board and thresholds on the calling
// goroutine and applies them on the Fyne thread.
func (a *App) scheduleBadgeRefresh() {
	if a.service == nil {
		return
	}
	badges := a.board.Badges()
	th := a.service.Settings().Thresholds(a.ctx)
	fyne.Do(func() { a.applyBadges(badges, th) })
}

func (a *App) applyBadges(badges []tracker.Badge, th settings.Thresholds) {
	if a.badgeView != nil {
		a.badgeView.Update(badges, th)
	}
}

func (a *App) onSettingChanged(key string) {
	switch {
	case key == settings.KeyLowWarning || key == settings.KeyVeryLowWarning ||
		key == settings.KeyLowWarningColor || key == settings.KeyVeryLowWarningColor:
		a.scheduleBadgeRefresh()
	case isLedgerKey(key):
		a.mu.Lock()
		tab := a.currentTab
		a.mu.Unlock()
		if tab == tabCharges {
			fyne.Do(a.doRefreshCurrentTab)
		}
	}
}

func isLedgerKey(key string) bool {
	for _, c := range catalog.All() {
		if c.LedgerKey() == key {
			return true
		}
	}
	return false
}

func (a *App) onFollowEvent(ev application.FollowEvent) {
	switch ev.Status {
	case application.FollowSearching:
		a.doSetStatus(lang.X("app.status.searching", "Waiting for a bridge log in {{.Path}}", map[string]any{"Path": shortPath(ev.Path)}))
	case application.FollowLoading:
		a.doSetStatus(lang.X("app.status.loading", "Loading: {{.Path}}", map[string]any{"Path": shortPath(ev.Path)}))
	case application.FollowWatching:
		a.doSetStatus(lang.X("app.status.watching", "Watching: {{.Path}}", map[string]any{"Path": shortPath(ev.Path)}))
	case application.FollowImportError:
		a.doSetStatus(lang.X("app.error.import", "Import error: {{.Error}}", map[string]any{"Error": ev.Err}))
	case application.FollowWatchError:
		a.doSetStatus(lang.X("app.error.watcher", "Watcher error: {{.Error}}", map[string]any{"Error": ev.Err}))
	}
}

func (a *App) reportError(err error) {
	a.doSetStatus(lang.X("app.error.save", "Could not save: {{.Error}}", map[string]any{"Error": err}))
}

// doSetStatus safely updates the status bar label from any goroutine.
func (a *App) doSetStatus(msg string) {
	fyne.Do(func() {
		if a.statusText != nil {
			a.statusText.SetText(msg)
		}
	})
}

func (a *App) shutdown() {
	a.closeOnce.Do(func() {
		a.cancel()
		if a.follower != nil {
			a.follower.Close()
		}
		if a.unsubscribe != nil {
			a.unsubscribe()
		}
		a.board.SetOnChange(nil)
		a.notifier.SetOnNotice(nil)
		if a.service != nil {
			_ = a.service.Close()
		}
	})
}

func shortPath(path string) string {
	if len(path) > 60 {
		return "..." + path[len(path)-57:]
	}
	return path
}
