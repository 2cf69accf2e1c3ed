package ui

import (
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/lang"

	"github.com/AkatukiSora/item-charges/internal/tracker"
)

// Notifier raises tracker notices as desktop notifications.
type Notifier struct {
	app fyne.App

	mu       sync.Mutex
	onNotice func(message string)
}

var _ tracker.Notifier = (*Notifier)(nil)

func NewNotifier(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

// SetOnNotice registers fn to also receive each message, e.g. for a status
// line.
func (n *Notifier) SetOnNotice(fn func(message string)) {
	n.mu.Lock()
	n.onNotice = fn
	n.mu.Unlock()
}

func (n *Notifier) Notify(message string) {
	slog.Info("notice", "message", message)
	n.mu.Lock()
	fn := n.onNotice
	n.mu.Unlock()

	fyne.Do(func() {
		n.app.SendNotification(fyne.NewNotification(lang.X("notify.title", "Item charges"), message))
	})
	if fn != nil {
		fn(message)
	}
}
