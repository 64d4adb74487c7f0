package distill

import "context"

// SectionWriter owns the output document. Sections are appended in
// completion order; implementations serialize concurrent appends and force
// each section to durable storage before returning, so a crash loses at
// most the in-flight section.
type SectionWriter interface {
	// Append writes one section to the output document.
	// A failed append is fatal to the run.
	Append(ctx context.Context, section *Section) error

	// Close releases the output file handle. It must be called on every
	// exit path, including failure.
	Close() error
}
