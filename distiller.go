package distill

import "context"

// Distiller condenses a page's markdown into concise, content-rich markdown
// using a language model. The failure reason is opaque to the caller; a
// distillation failure or timeout skips the page, never the run.
type Distiller interface {
	// Distill transforms raw page markdown into extracted markdown.
	// The context carries the per-page timeout.
	Distill(ctx context.Context, markdown string) (string, error)
}
