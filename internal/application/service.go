package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/classifier"
	"github.com/AkatukiSora/item-charges/internal/event"
	"github.com/AkatukiSora/item-charges/internal/ledger"
	"github.com/AkatukiSora/item-charges/internal/persistence"
	"github.com/AkatukiSora/item-charges/internal/settings"
	"github.com/AkatukiSora/item-charges/internal/tracker"
)

// CursorGroup is the config group holding per-file read positions.
const CursorGroup = "bridge"

// ChargeRow is one ledger entry for display.
type ChargeRow struct {
	Category catalog.Category
	Charges  int
	Max      int
	Capped   bool
}

// Cursor is the resume point of a bridge log.
type Cursor struct {
	NextByteOffset int64       `json:"offset"`
	Pending        event.State `json:"pending"`
}

// Service feeds bridge events into the tracker one at a time. Watcher
// callbacks, HUD callbacks and store notifications all funnel through the
// same queue.
type Service struct {
	queue serialQueue

	repo       persistence.SettingsRepository
	settings   *settings.Settings
	ledger     *ledger.Ledger
	dispatcher *tracker.Dispatcher

	mu            sync.RWMutex
	logPath       string
	decoder       *event.Decoder
	equipment     tracker.Snapshot
	haveEquipment bool

	unsubscribe func()
	closeOnce   sync.Once
}

type Deps struct {
	Repo     persistence.SettingsRepository
	Badges   tracker.BadgeStore
	Items    tracker.ItemInfo
	Notifier tracker.Notifier
}

func NewService(deps Deps) *Service {
	s := &Service{
		repo:     deps.Repo,
		settings: settings.New(deps.Repo),
		decoder:  event.NewDecoder(),
	}
	s.ledger = ledger.New(s.settings)
	synchronizer := tracker.NewSynchronizer(s.ledger, deps.Badges, deps.Items)
	s.dispatcher = tracker.NewDispatcher(tracker.Options{
		Classifier: classifier.New(),
		Ledger:     s.ledger,
		Sync:       synchronizer,
		Toggles:    s.settings,
		Equipment:  s,
		Notifier:   deps.Notifier,
	})
	// Notifications may fire from inside a queued task, so they never wait.
	s.unsubscribe = s.settings.OnChange(func(key string) {
		s.queue.Do(func() { s.dispatcher.OnConfigChanged(context.Background(), key) })
	})
	return s
}

func (s *Service) Settings() *settings.Settings { return s.settings }

// Equipment returns a copy of the last equipment snapshot.
func (s *Service) Equipment() (tracker.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveEquipment {
		return nil, false
	}
	return maps.Clone(s.equipment), true
}

// HandleEvent runs one decoded event through the tracker.
func (s *Service) HandleEvent(ctx context.Context, ev event.Event) {
	s.queue.Run(func() { s.handle(ctx, ev) })
}

func (s *Service) handle(ctx context.Context, ev event.Event) {
	switch ev.Kind {
	case event.KindChat:
		s.dispatcher.OnChat(ctx, ev.ChatType, ev.Text)
	case event.KindTick:
		s.dispatcher.OnTick(ctx, ev.Tick, ev.Primary, ev.Secondary)
	case event.KindEquipment:
		snap := tracker.Snapshot(maps.Clone(ev.Equipment))
		if snap == nil {
			snap = tracker.Snapshot{}
		}
		s.mu.Lock()
		s.equipment = snap
		s.haveEquipment = true
		s.mu.Unlock()
		s.dispatcher.OnEquipmentChanged(ctx, maps.Clone(snap))
	case event.KindGraphic:
		s.dispatcher.OnGraphic(ctx, ev.LocalPlayer, ev.GraphicID)
	case event.KindDestroy:
		s.dispatcher.OnDestroyConfirmed(ctx, ev.Tick, ev.ItemName)
	case event.KindConfig:
		s.applyConfig(ctx, ev.Group, ev.Key, ev.Value)
	}
}

// applyConfig stores a bridge config line. Only the itemCharge group is
// writable, and charge counts go through the ledger so they are floored.
// The store notifies the dispatcher through the subscription.
func (s *Service) applyConfig(ctx context.Context, group, key, value string) {
	if group != settings.Group {
		slog.Debug("ignoring bridge config outside the item charge group", "group", group, "key", key)
		return
	}
	if cat, ok := ledgerCategory(key); ok {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			slog.Warn("ignoring non-integer charge count", "key", key, "value", value)
			return
		}
		if err := s.ledger.Set(ctx, cat, n); err != nil {
			slog.Error("apply bridge config", "group", group, "key", key, "error", err)
		}
		return
	}
	if err := s.repo.Set(ctx, group, key, value); err != nil {
		slog.Error("apply bridge config", "group", group, "key", key, "error", err)
	}
}

func ledgerCategory(key string) (catalog.Category, bool) {
	for _, cat := range catalog.All() {
		if cat.Tracked() && cat.LedgerKey() == key {
			return cat, true
		}
	}
	return catalog.CategoryNone, false
}

// ChangeLogFile makes path the active bridge log and restores the decoder
// state saved with its cursor. Lines are then fed through ImportLines.
func (s *Service) ChangeLogFile(ctx context.Context, path string) error {
	cursor, err := s.GetCursor(ctx, path)
	if err != nil {
		return err
	}
	d := event.NewDecoder()
	if cursor != nil {
		d.RestoreState(cursor.Pending)
	}

	s.mu.Lock()
	s.logPath = path
	s.decoder = d
	s.mu.Unlock()
	slog.Info("active bridge log", "path", path, "offset", cursorOffset(cursor))
	return nil
}

func cursorOffset(c *Cursor) int64 {
	if c == nil {
		return 0
	}
	return c.NextByteOffset
}

// ImportLines decodes and handles lines read from sourcePath and then saves
// endOffset as the resume point. Lines from a log that is no longer active
// are dropped.
func (s *Service) ImportLines(ctx context.Context, sourcePath string, lines []string, startOffset int64, endOffset int64) error {
	if len(lines) == 0 {
		return nil
	}
	var importErr error
	s.queue.Run(func() {
		importErr = s.importLines(ctx, sourcePath, lines, startOffset, endOffset)
	})
	return importErr
}

func (s *Service) importLines(ctx context.Context, sourcePath string, lines []string, startOffset int64, endOffset int64) error {
	s.mu.RLock()
	active := s.logPath
	decoder := s.decoder
	s.mu.RUnlock()

	if sourcePath == "" {
		sourcePath = active
	}
	if sourcePath == "" || sourcePath != active {
		slog.Debug("dropping lines from inactive log", "path", sourcePath, "active", active)
		return nil
	}

	handled := 0
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, ok := decoder.DecodeLine(line)
		if !ok {
			continue
		}
		s.handle(ctx, ev)
		handled++
	}
	slog.Debug("imported bridge lines", "path", sourcePath, "lines", len(lines), "events", handled, "from", startOffset, "to", endOffset, "last", decoder.LastTimestamp())

	return s.saveCursor(ctx, sourcePath, Cursor{NextByteOffset: endOffset, Pending: decoder.State()})
}

func (s *Service) saveCursor(ctx context.Context, path string, c Cursor) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cursor: %w", err)
	}
	if err := s.repo.Set(ctx, CursorGroup, path, string(raw)); err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	return nil
}

func (s *Service) GetCursor(ctx context.Context, path string) (*Cursor, error) {
	if path == "" {
		return nil, nil
	}
	raw, ok, err := s.repo.Get(ctx, CursorGroup, path)
	if err != nil || !ok {
		return nil, err
	}
	var c Cursor
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		slog.Warn("discarding unreadable cursor", "path", path, "error", err)
		return nil, nil
	}
	return &c, nil
}

// NextOffset is where reading of path should resume.
func (s *Service) NextOffset(ctx context.Context, path string) (int64, error) {
	cursor, err := s.GetCursor(ctx, path)
	if err != nil || cursor == nil {
		return 0, err
	}
	return cursor.NextByteOffset, nil
}

func (s *Service) LogPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logPath
}

// Charges lists every tracked category with its current count.
func (s *Service) Charges(ctx context.Context) []ChargeRow {
	var rows []ChargeRow
	for _, cat := range catalog.All() {
		if !cat.Tracked() {
			continue
		}
		n, err := s.ledger.Get(ctx, cat)
		if err != nil {
			slog.Warn("read charges", "category", cat.String(), "error", err)
		}
		limit, capped := cat.Max()
		rows = append(rows, ChargeRow{Category: cat, Charges: n, Max: limit, Capped: capped})
	}
	return rows
}

// SetCharge overrides the believed count of cat, for when the user knows
// better than the last message.
func (s *Service) SetCharge(ctx context.Context, cat catalog.Category, n int) error {
	var err error
	s.queue.Run(func() { err = s.ledger.Set(ctx, cat, n) })
	return err
}

func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.queue.Run(s.dispatcher.Close)
	})
	return nil
}
