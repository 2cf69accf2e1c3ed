package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/AkatukiSora/item-charges/internal/application"
	"github.com/AkatukiSora/item-charges/internal/applog"
	"github.com/AkatukiSora/item-charges/internal/config"
	"github.com/AkatukiSora/item-charges/internal/itemdb"
	"github.com/AkatukiSora/item-charges/internal/persistence"
	"github.com/AkatukiSora/item-charges/internal/ui"
)

var (
	version   = "dev"
	commit    = "local"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", filepath.Join(config.DataDir(), "config.yaml"), "path to the YAML config file")
	envFile := flag.String("env", ".env", "dotenv file with ITEMCHARGE_* overrides")
	debug := flag.Bool("debug", false, "enable debug logging")
	headless := flag.Bool("headless", false, "track without the HUD window")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	cfg.Debug = cfg.Debug || *debug
	cfg.Headless = cfg.Headless || *headless

	logPath, closeLog := applog.Init(cfg.Debug, filepath.Dir(cfg.DatabasePath))
	defer closeLog()
	slog.Info("starting", "version", version, "commit", commit, "built", buildDate, "log", logPath)

	repo := openRepository(cfg.DatabasePath)
	defer func() { _ = repo.Close() }()
	items := itemdb.New(cfg.IconDir)

	if cfg.Headless {
		runHeadless(cfg, repo, items)
		return
	}

	hud := ui.New()
	svc := application.NewService(application.Deps{
		Repo:     repo,
		Badges:   hud.Board(),
		Items:    items,
		Notifier: hud.Notifier(),
	})
	hud.Run(svc, ui.Options{
		LogPath: cfg.EventLogPath,
		LogDir:  cfg.LogDir,
		Meta:    ui.AppMetadata{Version: version, Commit: commit},
	})
}

// openRepository falls back to an in-memory store so the tracker still runs
// when the database cannot be opened; nothing survives a restart then.
func openRepository(path string) persistence.SettingsRepository {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.Warn("create data dir", "path", path, "error", err)
	}
	repo, err := persistence.NewSQLiteRepository(path)
	if err != nil {
		slog.Error("failed to open sqlite repository, settings will not persist", "path", path, "error", err)
		return persistence.NewMemoryRepository()
	}
	return repo
}

// logNotifier stands in for desktop notifications in headless mode.
type logNotifier struct{}

func (logNotifier) Notify(message string) {
	slog.Info("notice", "message", message)
}

func runHeadless(cfg config.Config, repo persistence.SettingsRepository, items *itemdb.DB) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	board := ui.NewBoard()
	board.SetOnChange(func() {
		slog.Debug("badges changed", "count", board.Len())
	})
	svc := application.NewService(application.Deps{
		Repo:     repo,
		Badges:   board,
		Items:    items,
		Notifier: logNotifier{},
	})
	defer func() { _ = svc.Close() }()

	follower := application.NewFollower(ctx, svc, func(ev application.FollowEvent) {
		switch ev.Status {
		case application.FollowSearching:
			slog.Info("waiting for bridge log", "dir", ev.Path)
		case application.FollowWatching:
			slog.Info("following bridge log", "path", ev.Path)
		case application.FollowImportError, application.FollowWatchError:
			slog.Error("bridge log", "path", ev.Path, "error", ev.Err)
		}
	})
	defer follower.Close()
	follower.Follow(cfg.EventLogPath, cfg.LogDir)

	<-ctx.Done()
	slog.Info("shutting down")
}
