package watcher

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// BridgeLogPattern matches the files the client bridge writes, one per
// session.
const BridgeLogPattern = "item_charges_*.log"

const pollInterval = 500 * time.Millisecond

// readChunkSize bounds how much unread log is held in memory at once.
const readChunkSize = 64 * 1024

// LogWatcher tails one bridge log and reports complete lines.
type LogWatcher struct {
	LogPath   string
	offset    int64
	chunkSize int
	watcher   *fsnotify.Watcher
	done      chan struct{}
	mu        sync.Mutex
	readMu    sync.Mutex
	stopOnce  sync.Once

	cleanLogPath string
	onNewData    func(lines []string, startOffset int64, endOffset int64)
	onNewLogFile func(path string)
	onError      func(err error)
}

type WatcherConfig struct {
	// OnNewData receives the complete lines between startOffset and
	// endOffset. A trailing line without a newline is held back until it is
	// finished.
	OnNewData    func(lines []string, startOffset int64, endOffset int64)
	OnNewLogFile func(path string)
	OnError      func(err error)
}

func NewLogWatcher(logPath string, cfg WatcherConfig) (*LogWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &LogWatcher{
		LogPath:      logPath,
		chunkSize:    readChunkSize,
		watcher:      w,
		done:         make(chan struct{}),
		cleanLogPath: filepath.Clean(logPath),
		onNewData:    cfg.OnNewData,
		onNewLogFile: cfg.OnNewLogFile,
		onError:      cfg.OnError,
	}, nil
}

// Start reads whatever is past the current offset and then follows the file.
func (lw *LogWatcher) Start() error {
	slog.Info("watcher starting", "path", lw.LogPath, "offset", lw.Offset())
	// The directory is watched so that a new session file is noticed too.
	dir := filepath.Dir(lw.LogPath)
	if err := lw.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	if err := lw.readNewContent(); err != nil {
		slog.Warn("initial read failed", "path", lw.LogPath, "error", err)
	}

	go lw.watchLoop()
	return nil
}

func (lw *LogWatcher) Stop() {
	lw.stopOnce.Do(func() {
		slog.Info("watcher stopped", "path", lw.LogPath)
		close(lw.done)
		_ = lw.watcher.Close()
	})
}

// SetOffset sets the byte offset reading resumes from. Call before Start.
func (lw *LogWatcher) SetOffset(offset int64) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.offset = offset
}

func (lw *LogWatcher) Offset() int64 {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.offset
}

func (lw *LogWatcher) watchLoop() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-lw.done:
			return
		case event, ok := <-lw.watcher.Events:
			if !ok {
				return
			}
			sameFile := filepath.Clean(event.Name) == lw.cleanLogPath
			if event.Has(fsnotify.Create) && IsBridgeLogFile(event.Name) && !sameFile && lw.onNewLogFile != nil {
				lw.onNewLogFile(event.Name)
			}
			if sameFile && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				lw.report(lw.readNewContent())
			}
		case err, ok := <-lw.watcher.Errors:
			if !ok {
				return
			}
			lw.report(err)
		case <-ticker.C:
			// fsnotify misses writes on some network and WSL mounts.
			lw.report(lw.readNewContent())
		}
	}
}

func (lw *LogWatcher) report(err error) {
	if err != nil && lw.onError != nil {
		lw.onError(err)
	}
}

func (lw *LogWatcher) readNewContent() error {
	lw.readMu.Lock()
	defer lw.readMu.Unlock()

	f, err := os.Open(lw.LogPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	lw.mu.Lock()
	if info.Size() < lw.offset {
		slog.Info("log truncated, reading from start", "path", lw.LogPath)
		lw.offset = 0
	}
	startOffset := lw.offset
	lw.mu.Unlock()

	size := info.Size()
	if size <= startOffset {
		return nil
	}

	// Complete lines are handed over one chunk at a time; only a trailing
	// partial line is carried into the next read.
	chunk := make([]byte, lw.chunkSize)
	var carry []byte
	pos, batchStart := startOffset, startOffset
	for pos < size {
		n, err := f.ReadAt(chunk[:min(int64(len(chunk)), size-pos)], pos)
		if err != nil && err != io.EOF {
			return err
		}
		if n == 0 {
			break
		}
		pos += int64(n)
		carry = append(carry, chunk[:n]...)

		end := bytes.LastIndexByte(carry, '\n')
		if end < 0 {
			continue
		}
		batchEnd := batchStart + int64(end+1)
		lines := splitLines(carry[:end+1])
		carry = append(carry[:0], carry[end+1:]...)

		lw.mu.Lock()
		lw.offset = batchEnd
		lw.mu.Unlock()

		if len(lines) > 0 && lw.onNewData != nil {
			slog.Debug("new data detected", "path", lw.LogPath, "lines", len(lines))
			lw.onNewData(lines, batchStart, batchEnd)
		}
		batchStart = batchEnd
	}
	return nil
}

func splitLines(buf []byte) []string {
	raw := bytes.Split(bytes.TrimSuffix(buf, []byte("\n")), []byte("\n"))
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, string(bytes.TrimSuffix(l, []byte("\r"))))
	}
	return lines
}

// DetectLatestLogFile returns the newest bridge log in dir.
func DetectLatestLogFile(dir string) (string, error) {
	files, err := DetectAllLogFiles(dir)
	if err != nil {
		return "", err
	}
	return files[0], nil
}

// DetectAllLogFiles returns the bridge logs in dir, newest first.
func DetectAllLogFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, BridgeLogPattern))
	if err != nil {
		return nil, fmt.Errorf("glob bridge logs: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no bridge logs found in %s", dir)
	}
	sortByModTimeDesc(matches)
	return matches, nil
}

// sortByModTimeDesc stats each path once instead of inside the comparator.
func sortByModTimeDesc(paths []string) {
	modTimes := make(map[string]time.Time, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			modTimes[p] = info.ModTime()
		}
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return modTimes[paths[i]].After(modTimes[paths[j]])
	})
}

func IsBridgeLogFile(path string) bool {
	matched, err := filepath.Match(BridgeLogPattern, filepath.Base(path))
	return err == nil && matched
}
