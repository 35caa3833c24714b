// Package report writes the plain-text record of an analysis.
package report

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/storage"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
)

// TimestampLayout renders as YYYY-MM-DD_HH-MM-SS.
const TimestampLayout = "2006-01-02_15-04-05"

const (
	filePrefix  = "LegalSummary_"
	fileSuffix  = ".txt"
	mirrorDir   = "reports/"
	contentType = "text/plain; charset=utf-8"
)

// Clock is injected so tests can pin the report timestamp.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Report struct {
	Filename string
	Summary  string
	Glossary string
	Verdict  string
}

// FileName returns LegalSummary_<timestamp>.txt for t.
func FileName(t time.Time) string {
	return filePrefix + t.Format(TimestampLayout) + fileSuffix
}

// Render lays out the report body.
func Render(r Report, timestamp string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📄 File: %s\n🕒 Time: %s\n\n", r.Filename, timestamp)
	b.WriteString("=== 📑 Summary ===\n" + r.Summary + "\n\n")
	b.WriteString("=== 📘 Glossary ===\n" + r.Glossary + "\n\n")
	b.WriteString("=== ⚖️ Verdict ===\n" + r.Verdict + "\n")
	return b.String()
}

// Writer stores reports in a directory and, when a mirror is configured,
// copies them to object storage.
type Writer struct {
	dir    string
	clock  Clock
	mirror storage.Storage
	logger *utils.Logger
}

// NewWriter returns a Writer for dir. mirror may be nil.
func NewWriter(dir string, clock Clock, mirror storage.Storage, logger *utils.Logger) *Writer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Writer{dir: dir, clock: clock, mirror: mirror, logger: logger}
}

// Write renders r and writes it, returning the file path. Two reports
// written in the same second share a name; the later one wins.
func (w *Writer) Write(ctx context.Context, r Report) (string, error) {
	now := w.clock.Now()
	name := FileName(now)
	content := []byte(Render(r, now.Format(TimestampLayout)))

	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if w.mirror != nil {
		if err := w.mirror.Put(ctx, mirrorDir+name, content, contentType); err != nil {
			w.logger.Warn("Failed to mirror report", "error", err, "report", name)
		}
	}

	w.logger.Info("Report written", "path", path, "filename", r.Filename)
	return path, nil
}

// Read returns the report at path. A report missing on disk is fetched
// from the mirror when one is configured.
func (w *Writer) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || w.mirror == nil {
		return nil, err
	}

	data, mErr := w.mirror.Get(ctx, mirrorDir+filepath.Base(path))
	if mErr != nil {
		if errors.Is(mErr, storage.ErrNotFound) {
			return nil, err
		}
		return nil, mErr
	}
	return data, nil
}
