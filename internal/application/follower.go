package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AkatukiSora/item-charges/internal/watcher"
)

// LogSink consumes bridge log lines.
type LogSink interface {
	ChangeLogFile(ctx context.Context, path string) error
	ImportLines(ctx context.Context, sourcePath string, lines []string, startOffset int64, endOffset int64) error
	NextOffset(ctx context.Context, path string) (int64, error)
}

type FollowStatus int

// discoverInterval is how often an empty log directory is rescanned.
var discoverInterval = 2 * time.Second

const (
	FollowSearching FollowStatus = iota
	FollowLoading
	FollowWatching
	FollowImportError
	FollowWatchError
)

// FollowEvent reports progress of the active log.
type FollowEvent struct {
	Status FollowStatus
	Path   string
	Err    error
}

// Follower keeps exactly one bridge log tailed and switches to a newer
// session file when the bridge starts one. Switch requests are coalesced so
// only the latest path is acted on.
type Follower struct {
	ctx     context.Context
	sink    LogSink
	onEvent func(FollowEvent)

	mu             sync.Mutex
	watcher        *watcher.LogWatcher
	watcherGen     uint64
	changeReqCh    chan string
	workerStopCh   chan struct{}
	workerWG       sync.WaitGroup
	closeOnce      sync.Once
	isShuttingDown bool
	current        string
}

func NewFollower(ctx context.Context, sink LogSink, onEvent func(FollowEvent)) *Follower {
	if onEvent == nil {
		onEvent = func(FollowEvent) {}
	}
	f := &Follower{
		ctx:          ctx,
		sink:         sink,
		onEvent:      onEvent,
		changeReqCh:  make(chan string, 1),
		workerStopCh: make(chan struct{}),
	}
	f.workerWG.Add(1)
	go f.loop()
	return f
}

func (f *Follower) loop() {
	defer f.workerWG.Done()
	for {
		select {
		case <-f.workerStopCh:
			return
		case <-f.ctx.Done():
			return
		case path := <-f.changeReqCh:
			f.changeLogFile(path)
		}
	}
}

// Request asks for path to become the followed log.
func (f *Follower) Request(path string) {
	if path == "" {
		return
	}
	f.mu.Lock()
	if f.isShuttingDown {
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	select {
	case f.changeReqCh <- path:
	default:
		select {
		case <-f.changeReqCh:
		default:
		}
		select {
		case f.changeReqCh <- path:
		default:
		}
	}
}

// Follow requests path, or when path is empty the newest bridge log in dir.
// An empty dir is rescanned until a log appears.
func (f *Follower) Follow(path, dir string) {
	if path != "" {
		f.Request(path)
		return
	}
	if latest, err := watcher.DetectLatestLogFile(dir); err == nil {
		f.Request(latest)
		return
	}
	f.onEvent(FollowEvent{Status: FollowSearching, Path: dir})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isShuttingDown {
		return
	}
	f.workerWG.Add(1)
	go func() {
		defer f.workerWG.Done()
		ticker := time.NewTicker(discoverInterval)
		defer ticker.Stop()
		for {
			select {
			case <-f.workerStopCh:
				return
			case <-f.ctx.Done():
				return
			case <-ticker.C:
			}
			if latest, err := watcher.DetectLatestLogFile(dir); err == nil {
				f.Request(latest)
				return
			}
		}
	}()
}

// Current is the path being followed, or "".
func (f *Follower) Current() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Follower) changeLogFile(path string) {
	f.mu.Lock()
	f.watcherGen++
	gen := f.watcherGen
	prev := f.watcher
	f.watcher = nil
	f.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}

	f.onEvent(FollowEvent{Status: FollowLoading, Path: path})
	if err := f.sink.ChangeLogFile(f.ctx, path); err != nil {
		f.onEvent(FollowEvent{Status: FollowImportError, Path: path, Err: err})
		return
	}

	w, err := watcher.NewLogWatcher(path, watcher.WatcherConfig{
		OnNewData: func(lines []string, startOffset int64, endOffset int64) {
			if !f.isCurrent(gen) {
				return
			}
			if err := f.sink.ImportLines(f.ctx, path, lines, startOffset, endOffset); err != nil {
				f.onEvent(FollowEvent{Status: FollowImportError, Path: path, Err: err})
			}
		},
		OnNewLogFile: func(next string) {
			if !f.isCurrent(gen) {
				return
			}
			slog.Info("new bridge session detected", "path", next)
			f.Request(next)
		},
		OnError: func(err error) {
			if !f.isCurrent(gen) {
				return
			}
			f.onEvent(FollowEvent{Status: FollowWatchError, Path: path, Err: err})
		},
	})
	if err != nil {
		f.onEvent(FollowEvent{Status: FollowWatchError, Path: path, Err: err})
		return
	}

	offset, err := f.sink.NextOffset(f.ctx, path)
	if err != nil {
		slog.Warn("read cursor", "path", path, "error", err)
	}
	w.SetOffset(offset)

	// Publish before Start so the initial read is not discarded as stale.
	f.mu.Lock()
	if f.watcherGen != gen || f.isShuttingDown {
		f.mu.Unlock()
		w.Stop()
		return
	}
	f.watcher = w
	f.current = path
	f.mu.Unlock()

	if err := w.Start(); err != nil {
		f.onEvent(FollowEvent{Status: FollowWatchError, Path: path, Err: err})
		return
	}
	f.onEvent(FollowEvent{Status: FollowWatching, Path: path})
}

func (f *Follower) isCurrent(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.isShuttingDown && f.watcherGen == gen
}

// Close stops the watcher and waits for the worker to exit. The sink is not
// closed.
func (f *Follower) Close() {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.isShuttingDown = true
		f.watcherGen++
		w := f.watcher
		f.watcher = nil
		f.mu.Unlock()

		if w != nil {
			w.Stop()
		}
		close(f.workerStopCh)
		f.workerWG.Wait()
	})
}
