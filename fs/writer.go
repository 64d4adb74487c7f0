// Package fs streams distilled sections to a markdown file on disk.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/distill"
	"github.com/google/uuid"
)

// Ensure StreamWriter implements distill.SectionWriter at compile time.
var _ distill.SectionWriter = (*StreamWriter)(nil)

// StreamWriter appends sections to a single markdown file. The file is
// created once with a timestamped name and a document header; each Append
// is serialized and synced to disk before returning.
type StreamWriter struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	runID  string
	closed bool
}

// NewStreamWriter creates the output directory if needed, opens a new
// timestamped file named after base, and writes the document header.
func NewStreamWriter(dir, base, title string) (*StreamWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, Filename(base, time.Now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create output file %q: %w", path, err)
	}

	w := &StreamWriter{
		f:     f,
		path:  path,
		runID: uuid.NewString(),
	}

	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	fmt.Fprintf(&sb, "*Generated on: %s*\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "*Run ID: %s*\n\n", w.runID)
	sb.WriteString("---\n\n")

	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header to %q: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, fmt.Errorf("sync %q: %w", path, err)
	}

	return w, nil
}

// Path returns the full path of the output file.
func (w *StreamWriter) Path() string {
	return w.path
}

// RunID returns the identifier stamped into the document header.
func (w *StreamWriter) RunID() string {
	return w.runID
}

// Append writes one section to the output file and syncs it to disk.
func (w *StreamWriter) Append(ctx context.Context, section *distill.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return distill.Errorf(distill.EINTERNAL, "output file already closed")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Source: %s\n\n", section.SourceURL)
	if section.ContentHash != "" {
		fmt.Fprintf(&sb, "<!-- distilled %s hash %s -->\n\n",
			section.DistilledAt.UTC().Format(time.RFC3339), section.ContentHash)
	}
	sb.WriteString(strings.TrimRight(section.Markdown, "\n"))
	sb.WriteString("\n\n")

	if _, err := w.f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("append section for %q: %w", section.SourceURL, err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("sync %q: %w", w.path, err)
	}

	return nil
}

// WriteSummary appends a pre-rendered markdown block, such as the run
// summary, to the output file and syncs it to disk.
func (w *StreamWriter) WriteSummary(md string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return distill.Errorf(distill.EINTERNAL, "output file already closed")
	}

	if _, err := w.f.WriteString(strings.TrimRight(md, "\n") + "\n"); err != nil {
		return fmt.Errorf("append summary: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("sync %q: %w", w.path, err)
	}

	return nil
}

// Close closes the output file. It is safe to call more than once.
func (w *StreamWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}

// Filename builds the timestamped output file name for a base name.
func Filename(base string, t time.Time) string {
	return fmt.Sprintf("%s_%s.md", SanitizeBaseName(base), t.Format("20060102_150405"))
}

// SanitizeBaseName reduces a name to a filesystem-safe lowercase slug.
func SanitizeBaseName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r + ('a' - 'A'))
		case r == ' ', r == '.':
			sb.WriteRune('_')
		}
	}
	out := strings.Trim(sb.String(), "_")
	if out == "" {
		return "crawl_output"
	}
	return out
}
