// Package spool feeds commands dropped as files into a directory to a
// single sender.
//
// Each *.cmd file holds one command per line, "<channel> <keyword>", with
// an optional trailing "dry-run". Blank lines and lines starting with # are
// ignored. Files are processed in name order and removed afterwards, so
// producers should write under another name and rename into place.
package spool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/centronic/internal/ports"
)

// Ext is the suffix of command files.
const Ext = ".cmd"

// DefaultDebounce is the quiet period after the last file event before the
// directory is drained.
const DefaultDebounce = 100 * time.Millisecond

const dryRunToken = "dry-run"

// Sender executes one command. *centronic.Centronic satisfies it.
type Sender interface {
	Send(ctx context.Context, channel, keyword string, dryRun bool) error
}

// Line is a parsed command line.
type Line struct {
	Channel string
	Keyword string
	DryRun  bool
}

// ParseLine parses "<channel> <keyword> [dry-run]". ok is false for blank
// and comment lines.
func ParseLine(s string) (line Line, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "#") {
		return Line{}, false, nil
	}

	fields := strings.Fields(s)
	switch {
	case len(fields) == 2:
	case len(fields) == 3 && strings.EqualFold(fields[2], dryRunToken):
	default:
		return Line{}, false, fmt.Errorf("malformed command line %q", s)
	}

	return Line{
		Channel: fields[0],
		Keyword: fields[1],
		DryRun:  len(fields) == 3,
	}, true, nil
}

// Watcher drains a spool directory whenever command files appear.
// Commands are sent from the goroutine calling Run, one at a time.
type Watcher struct {
	dir      string
	debounce time.Duration
	sender   Sender
	logger   ports.Logger

	mu      sync.Mutex
	timer   *time.Timer
	trigger chan struct{}
}

// New creates a watcher for dir. A non-positive debounce selects
// DefaultDebounce.
func New(dir string, debounce time.Duration, sender Sender, logger ports.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		sender:   sender,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Run drains files already present and then every batch of new files until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create spool dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	defer w.stopTimer()

	w.logger.Info("watching spool directory", ports.String("dir", w.dir))

	if _, err := w.Drain(ctx); err != nil {
		w.logger.Error("spool drain failed", ports.Err(err))
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != Ext {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule()

		case <-w.trigger:
			if _, err := w.Drain(ctx); err != nil {
				w.logger.Error("spool drain failed", ports.Err(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("spool watcher error", ports.Err(err))
		}
	}
}

// Drain processes every command file currently in the directory and
// returns the number of commands sent.
func (w *Watcher) Drain(ctx context.Context) (int, error) {
	names, err := w.pending()
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, name := range names {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		sent += w.processFile(ctx, filepath.Join(w.dir, name))
	}
	return sent, nil
}

// pending lists command files in name order.
func (w *Watcher) pending() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("read spool dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (w *Watcher) processFile(ctx context.Context, path string) int {
	lines, err := readLines(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	if err != nil {
		w.logger.Error("failed to read command file", ports.String("file", path), ports.Err(err))
		return 0
	}

	sent := 0
	for i, raw := range lines {
		line, ok, err := ParseLine(raw)
		if err != nil {
			w.logger.Warn("skipping command line",
				ports.String("file", path),
				ports.Int("line", i+1),
				ports.Err(err))
			continue
		}
		if !ok {
			continue
		}
		if err := w.sender.Send(ctx, line.Channel, line.Keyword, line.DryRun); err != nil {
			w.logger.Error("spooled command failed",
				ports.String("file", path),
				ports.String("channel", line.Channel),
				ports.String("command", line.Keyword),
				ports.Err(err))
			continue
		}
		sent++
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.logger.Error("failed to remove command file", ports.String("file", path), ports.Err(err))
	}
	w.logger.Debug("command file processed", ports.String("file", path), ports.Int("sent", sent))
	return sent
}

// schedule signals Run once no event arrived for the debounce period.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
