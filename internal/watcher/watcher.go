// Package watcher analyzes documents dropped into a directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/extractor"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/models"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
)

const DefaultSettle = 2 * time.Second

// reportPrefix keeps generated reports from being analyzed when the watch
// directory and the report directory are the same.
const reportPrefix = "LegalSummary_"

type Analyzer interface {
	Analyze(ctx context.Context, req *models.UploadRequest) (*models.Analysis, error)
	IsAnalyzed(ctx context.Context, data []byte) (bool, error)
}

// Watcher waits until a file has seen no events for the settle period and
// then analyzes it. Files are handled one at a time, and a file whose
// content was already analyzed is skipped, including across restarts.
type Watcher struct {
	analyzer Analyzer
	logger   *utils.Logger
	settle   time.Duration
}

func New(analyzer Analyzer, logger *utils.Logger, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{analyzer: analyzer, logger: logger, settle: settle}
}

// Run watches dir until ctx is cancelled. Supported files already present
// when Run starts are analyzed first.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info("Watching directory", "dir", dir, "settle", w.settle.String())

	pending := map[string]time.Time{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !e.IsDir() && w.accepts(path) {
			pending[path] = time.Time{}
		}
	}

	tick := w.settle / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Remove != 0 {
				delete(pending, event.Name)
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 && w.accepts(event.Name) {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.settle) {
				delete(pending, path)
				w.process(ctx, path)
			}
		}
	}
}

func (w *Watcher) accepts(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, reportPrefix) {
		return false
	}
	return extractor.DetectFormat(name) != extractor.FormatUnsupported
}

func (w *Watcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error("Failed to read watched file", "error", err, "path", path)
		return
	}

	seen, err := w.analyzer.IsAnalyzed(ctx, data)
	if err != nil {
		w.logger.Error("Failed to check watched file", "error", err, "path", path)
		return
	}
	if seen {
		w.logger.Debug("Watched file already analyzed", "path", path)
		return
	}

	analysis, err := w.analyzer.Analyze(ctx, &models.UploadRequest{
		File:     data,
		Filename: filepath.Base(path),
	})
	if err != nil {
		w.logger.Error("Failed to analyze watched file", "error", err, "path", path)
		return
	}

	w.logger.Info("Watched file analyzed", "path", path, "id", analysis.ID)
}

// settled returns the paths whose last event is older than settle, sorted
// so a batch is processed in a stable order.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}
