// Package tracker applies classified updates to the ledger and keeps the
// badge set in line with the ledger and the equipment.
package tracker

import (
	"context"
	"log/slog"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/classifier"
	"github.com/AkatukiSora/item-charges/internal/settings"
)

// Chat message types that can carry item notifications.
const (
	ChatGameMessage = "GAMEMESSAGE"
	ChatSpam        = "SPAM"
)

var noticeToggles = map[classifier.Notice]string{
	classifier.NoticeRecoil:  settings.KeyRecoilNotification,
	classifier.NoticeDodgy:   settings.KeyDodgyNotification,
	classifier.NoticeBinding: settings.KeyBindingNotification,
}

type Options struct {
	Classifier *classifier.Classifier
	Ledger     ChargeLedger
	Sync       *Synchronizer
	Toggles    Toggles
	Equipment  EquipmentProvider
	Notifier   Notifier
}

// Dispatcher is not safe for concurrent use; callers deliver events one at a
// time in the order they happened.
type Dispatcher struct {
	classifier *classifier.Classifier
	ledger     ChargeLedger
	sync       *Synchronizer
	toggles    Toggles
	equipment  EquipmentProvider
	notifier   Notifier

	lastCheckTick int
}

func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		classifier:    opts.Classifier,
		ledger:        opts.Ledger,
		sync:          opts.Sync,
		toggles:       opts.Toggles,
		equipment:     opts.Equipment,
		notifier:      opts.Notifier,
		lastCheckTick: -1,
	}
	if d.classifier == nil {
		d.classifier = classifier.New()
	}
	if d.notifier == nil {
		d.notifier = nopNotifier{}
	}
	return d
}

func (d *Dispatcher) OnChat(ctx context.Context, msgType, text string) {
	if msgType != ChatGameMessage && msgType != ChatSpam {
		return
	}
	if u, ok := d.classifier.Classify(classifier.SourceChat, text); ok {
		d.handle(ctx, u)
	}
}

// OnTick inspects the dialog text visible during a tick. The bracelet break
// check and the primary dialog rules both read the primary text and both run.
func (d *Dispatcher) OnTick(ctx context.Context, tick int, primary, secondary string) {
	if primary != "" {
		if u, ok := d.classifier.Classify(classifier.SourceBraceletBreak, primary); ok {
			d.handle(ctx, u)
		}
		if u, ok := d.classifier.Classify(classifier.SourceDialogPrimary, primary); ok {
			d.handle(ctx, u)
		}
	}
	if secondary != "" {
		if u, ok := d.classifier.Classify(classifier.SourceDialogSecondary, secondary); ok {
			d.handle(ctx, u)
		}
	}
}

func (d *Dispatcher) OnGraphic(ctx context.Context, localPlayer bool, graphicID int) {
	if u, ok := d.classifier.ClassifyGraphic(localPlayer, graphicID); ok {
		d.handle(ctx, u)
	}
}

// OnDestroyConfirmed handles the confirmed destroy prompt of itemName. The
// prompt stays open across ticks, so only the first confirmation of a tick
// counts.
func (d *Dispatcher) OnDestroyConfirmed(ctx context.Context, tick int, itemName string) {
	if tick == d.lastCheckTick {
		return
	}
	d.lastCheckTick = tick
	if u, ok := d.classifier.Classify(classifier.SourceDestroyPrompt, itemName); ok {
		d.handle(ctx, u)
	}
}

func (d *Dispatcher) OnEquipmentChanged(ctx context.Context, snap Snapshot) {
	if !d.toggles.ShowInfoboxes(ctx) {
		return
	}
	for _, cat := range catalog.Displayable() {
		if d.toggles.ShowCategory(ctx, cat) {
			d.sync.Reconcile(ctx, cat, snap)
		}
	}
}

// OnConfigChanged reacts to a change of key in the itemCharge group. Turning
// a toggle off removes badges and leaves the ledger alone; turning it on, or
// editing a stored count, rebuilds badges from the ledger.
func (d *Dispatcher) OnConfigChanged(ctx context.Context, key string) {
	if !d.toggles.ShowInfoboxes(ctx) {
		d.sync.RemoveAll()
		return
	}
	snap, haveSnap := d.equipment.Equipment()
	for _, cat := range catalog.Displayable() {
		if !d.toggles.ShowCategory(ctx, cat) {
			d.sync.Remove(cat)
			continue
		}
		affected := key == settings.KeyShowInfoboxes || key == cat.ToggleKey() || key == cat.LedgerKey()
		if affected && haveSnap {
			d.sync.Reconcile(ctx, cat, snap)
		}
	}
}

// Close removes every badge and forgets the last processed tick.
func (d *Dispatcher) Close() {
	d.sync.RemoveAll()
	d.lastCheckTick = -1
}

func (d *Dispatcher) handle(ctx context.Context, u classifier.Update) {
	if u.HasCharge() {
		n, err := d.ledger.Apply(ctx, u.Category, u.Op)
		if err != nil {
			slog.Error("apply charge update", "rule", u.Rule, "category", u.Category.String(), "op", u.Op.String(), "error", err)
		} else {
			slog.Debug("charge update", "rule", u.Rule, "category", u.Category.String(), "op", u.Op.String(), "charges", n)
		}
	}

	if key, ok := noticeToggles[u.Notice]; ok && d.toggles.Bool(ctx, key) {
		d.notifier.Notify(u.Notice.Message())
	}

	if !u.HasCharge() {
		return
	}
	if !d.toggles.ShowInfoboxes(ctx) || !d.toggles.ShowCategory(ctx, u.Category) {
		return
	}
	snap, ok := d.equipment.Equipment()
	if !ok {
		return
	}
	d.sync.Reconcile(ctx, u.Category, snap)
}
