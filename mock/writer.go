package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/distill"
)

var _ distill.SectionWriter = (*SectionWriter)(nil)

// SectionWriter is a mock implementation of distill.SectionWriter.
// When AppendFn is nil, appended sections are recorded and retrievable
// via Sections, which is safe for concurrent appends.
type SectionWriter struct {
	AppendFn func(ctx context.Context, section *distill.Section) error
	CloseFn  func() error

	mu       sync.Mutex
	sections []*distill.Section
}

func (w *SectionWriter) Append(ctx context.Context, section *distill.Section) error {
	if w.AppendFn != nil {
		return w.AppendFn(ctx, section)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sections = append(w.sections, section)
	return nil
}

func (w *SectionWriter) Close() error {
	if w.CloseFn == nil {
		return nil
	}
	return w.CloseFn()
}

// Sections returns the sections recorded by the default Append behavior.
func (w *SectionWriter) Sections() []*distill.Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*distill.Section, len(w.sections))
	copy(out, w.sections)
	return out
}
