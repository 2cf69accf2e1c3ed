package application

import (
	"context"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkatukiSora/item-charges/internal/catalog"
	"github.com/AkatukiSora/item-charges/internal/persistence"
	"github.com/AkatukiSora/item-charges/internal/settings"
	"github.com/AkatukiSora/item-charges/internal/tracker"
)

type testBoard struct {
	mu     sync.Mutex
	badges map[tracker.BadgeKey]tracker.Badge
}

func newTestBoard() *testBoard {
	return &testBoard{badges: make(map[tracker.BadgeKey]tracker.Badge)}
}

func (b *testBoard) Add(badge tracker.Badge) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.badges[badge.Key] = badge
}

func (b *testBoard) RemoveWhere(match func(tracker.BadgeKey) bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.badges {
		if match(k) {
			delete(b.badges, k)
		}
	}
}

func (b *testBoard) get(cat catalog.Category, slot catalog.Slot) (tracker.Badge, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	badge, ok := b.badges[tracker.BadgeKey{Category: cat, Slot: slot}]
	return badge, ok
}

func (b *testBoard) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.badges)
}

type testItems struct{}

func (testItems) Name(id catalog.ItemID) string    { return catalog.Name(id) }
func (testItems) Icon(catalog.ItemID) image.Image { return nil }

type testNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *testNotifier) Notify(m string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, m)
}

func newTestService(t *testing.T, repo persistence.SettingsRepository) (*Service, *testBoard, *testNotifier) {
	t.Helper()
	board := newTestBoard()
	notifier := &testNotifier{}
	svc := NewService(Deps{Repo: repo, Badges: board, Items: testItems{}, Notifier: notifier})
	t.Cleanup(func() { _ = svc.Close() })
	return svc, board, notifier
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

const sessionLog = `
2026.02.21 00:18:53 Chat - GAMEMESSAGE - Your dodgy necklace has 4 charges left.
2026.02.21 00:18:54 Equipment - amulet=21143 ring=2560
2026.02.21 00:18:55 Chat - PUBLICCHAT - Your dodgy necklace has 1 charge left.
`

func TestImportLinesUpdatesBadges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, board, _ := newTestService(t, persistence.NewMemoryRepository())

	require.NoError(t, svc.ChangeLogFile(ctx, "/logs/item_charges_a.log"))
	require.NoError(t, svc.ImportLines(ctx, "/logs/item_charges_a.log", lines(sessionLog), 0, 210))

	badge, ok := board.get(catalog.CategoryDodgyNecklace, catalog.SlotAmulet)
	require.True(t, ok)
	assert.Equal(t, 4, badge.Charges)
	assert.Equal(t, "Dodgy necklace", badge.Name)
	teleport, ok := board.get(catalog.CategoryTeleport, catalog.SlotRing)
	require.True(t, ok)
	assert.Equal(t, 4, teleport.Charges)

	off, err := svc.NextOffset(ctx, "/logs/item_charges_a.log")
	require.NoError(t, err)
	assert.Equal(t, int64(210), off)

	snap, ok := svc.Equipment()
	require.True(t, ok)
	assert.Equal(t, catalog.DodgyNecklace, snap[catalog.SlotAmulet])
}

func TestImportLinesSkipsStaleSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, board, _ := newTestService(t, persistence.NewMemoryRepository())

	require.NoError(t, svc.ChangeLogFile(ctx, "/logs/a.log"))
	require.NoError(t, svc.ChangeLogFile(ctx, "/logs/b.log"))
	require.NoError(t, svc.ImportLines(ctx, "/logs/a.log", lines(sessionLog), 0, 100))

	assert.Zero(t, board.len())
	off, err := svc.NextOffset(ctx, "/logs/a.log")
	require.NoError(t, err)
	assert.Zero(t, off)
	assert.Equal(t, "/logs/b.log", svc.LogPath())
}

func TestResumeKeepsPendingDialog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := persistence.NewMemoryRepository()
	path := "/logs/item_charges_resume.log"

	first, _, _ := newTestService(t, repo)
	require.NoError(t, first.SetCharge(ctx, catalog.CategoryBraceletOfSlaughter, 4))
	require.NoError(t, first.ChangeLogFile(ctx, path))
	require.NoError(t, first.ImportLines(ctx, path, []string{
		"2026.02.21 00:18:53 Dialog - primary - Your bracelet of slaughter crumbles to dust.",
	}, 0, 90))
	require.NoError(t, first.Close())

	second, _, _ := newTestService(t, repo)
	require.NoError(t, second.ChangeLogFile(ctx, path))
	require.NoError(t, second.ImportLines(ctx, path, []string{"2026.02.21 00:18:54 Tick - 77"}, 90, 120))

	rows := second.Charges(ctx)
	var got int
	for _, r := range rows {
		if r.Category == catalog.CategoryBraceletOfSlaughter {
			got = r.Charges
		}
	}
	assert.Equal(t, 30, got)
}

func TestBridgeConfigLineTogglesBadges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, board, _ := newTestService(t, persistence.NewMemoryRepository())
	path := "/logs/item_charges_cfg.log"

	require.NoError(t, svc.ChangeLogFile(ctx, path))
	require.NoError(t, svc.ImportLines(ctx, path, lines(sessionLog), 0, 10))
	require.Equal(t, 2, board.len())

	require.NoError(t, svc.ImportLines(ctx, path, []string{
		"2026.02.21 00:19:00 Config - itemCharge.showDodgyCount=false",
	}, 10, 20))
	_, ok := board.get(catalog.CategoryDodgyNecklace, catalog.SlotAmulet)
	assert.False(t, ok)
	assert.Equal(t, 1, board.len())

	require.NoError(t, svc.Settings().SetBool(ctx, "showDodgyCount", true))
	badge, ok := board.get(catalog.CategoryDodgyNecklace, catalog.SlotAmulet)
	require.True(t, ok)
	assert.Equal(t, 4, badge.Charges)
}

func TestBridgeConfigChargeIsFloored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, err := persistence.NewSQLiteRepository(filepath.Join(t.TempDir(), "charges.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	svc, _, _ := newTestService(t, repo)
	path := "/logs/item_charges_negative.log"

	require.NoError(t, svc.ChangeLogFile(ctx, path))
	require.NoError(t, svc.ImportLines(ctx, path, []string{
		"2026.02.21 00:19:00 Config - itemCharge.dodgyNecklace=-3",
		"2026.02.21 00:19:01 Config - itemCharge.slaughter=lots",
	}, 0, 20))

	raw, ok, err := repo.Get(ctx, settings.Group, "dodgyNecklace")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0", raw)
	_, ok, err = repo.Get(ctx, settings.Group, "slaughter")
	require.NoError(t, err)
	assert.False(t, ok, "non-integer counts are not stored")

	for _, r := range svc.Charges(ctx) {
		switch r.Category {
		case catalog.CategoryDodgyNecklace:
			assert.Equal(t, 0, r.Charges)
		case catalog.CategoryBraceletOfSlaughter:
			assert.Equal(t, 30, r.Charges)
		}
	}
}

func TestStoredNegativeChargeReadsZeroAfterReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "charges.db")

	repo, err := persistence.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, settings.Group, "bindingNecklace", "-5"))
	require.NoError(t, repo.Close())

	repo, err = persistence.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	svc, _, _ := newTestService(t, repo)

	for _, r := range svc.Charges(ctx) {
		if r.Category == catalog.CategoryBindingNecklace {
			assert.Equal(t, 0, r.Charges)
		}
	}
}

func TestBridgeConfigOutsideItemChargeGroupIsIgnored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := persistence.NewMemoryRepository()
	svc, _, _ := newTestService(t, repo)
	path := "/logs/item_charges_group.log"

	require.NoError(t, svc.ChangeLogFile(ctx, path))
	require.NoError(t, svc.ImportLines(ctx, path, []string{
		"2026.02.21 00:19:00 Config - bridge./logs/other.log=garbage",
	}, 0, 40))

	_, ok, err := repo.Get(ctx, CursorGroup, "/logs/other.log")
	require.NoError(t, err)
	assert.False(t, ok)
	next, err := svc.NextOffset(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int64(40), next)
}

func TestSetChargeRefreshesBadge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, board, _ := newTestService(t, persistence.NewMemoryRepository())
	path := "/logs/item_charges_set.log"

	require.NoError(t, svc.ChangeLogFile(ctx, path))
	require.NoError(t, svc.ImportLines(ctx, path, lines(sessionLog), 0, 10))

	require.NoError(t, svc.SetCharge(ctx, catalog.CategoryDodgyNecklace, 2))
	badge, ok := board.get(catalog.CategoryDodgyNecklace, catalog.SlotAmulet)
	require.True(t, ok)
	assert.Equal(t, 2, badge.Charges)

	err := svc.SetCharge(ctx, catalog.CategoryTeleport, 2)
	assert.Error(t, err)
}

func TestChargesListsTrackedCategories(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t, persistence.NewMemoryRepository())

	rows := svc.Charges(context.Background())
	require.Len(t, rows, 7)
	for _, r := range rows {
		assert.True(t, r.Category.Tracked())
		if r.Category == catalog.CategoryXericTalisman {
			assert.False(t, r.Capped)
			assert.Zero(t, r.Charges)
		}
	}
}

func TestCloseRemovesBadges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, board, _ := newTestService(t, persistence.NewMemoryRepository())
	path := "/logs/item_charges_close.log"

	require.NoError(t, svc.ChangeLogFile(ctx, path))
	require.NoError(t, svc.ImportLines(ctx, path, lines(sessionLog), 0, 10))
	require.NotZero(t, board.len())

	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())
	assert.Zero(t, board.len())
}
