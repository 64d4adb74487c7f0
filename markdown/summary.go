// Package markdown renders the end-of-run summary report.
package markdown

import (
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
)

// Summary holds the figures reported at the end of a run.
type Summary struct {
	SeedURL    string
	OutputPath string
	Visited    int
	Extracted  int
	Failed     int
	Skipped    int
	Bytes      int
	Elapsed    time.Duration
}

// SummaryWriter renders a Summary as markdown.
type SummaryWriter struct{}

// NewSummaryWriter creates a new SummaryWriter.
func NewSummaryWriter() *SummaryWriter {
	return &SummaryWriter{}
}

// Render produces the markdown summary section.
func (w *SummaryWriter) Render(s Summary) (string, error) {
	var sb strings.Builder
	md := markdown.NewMarkdown(&sb)

	md.H2("Crawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + s.SeedURL + "`"},
			{"Pages visited", strconv.Itoa(s.Visited)},
			{"Sections extracted", strconv.Itoa(s.Extracted)},
			{"Pages failed", strconv.Itoa(s.Failed)},
			{"Pages skipped", strconv.Itoa(s.Skipped)},
			{"Markdown bytes", strconv.Itoa(s.Bytes)},
			{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")
	if s.OutputPath != "" {
		md.PlainTextf("Output written to `%s`.", s.OutputPath)
	}

	if err := md.Build(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
