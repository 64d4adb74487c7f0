package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of distill.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*distill.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*distill.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ distill.Converter = (*Converter)(nil)

// Converter is a mock implementation of distill.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ distill.Distiller = (*Distiller)(nil)

// Distiller is a mock implementation of distill.Distiller.
type Distiller struct {
	DistillFn func(ctx context.Context, markdown string) (string, error)
}

func (d *Distiller) Distill(ctx context.Context, markdown string) (string, error) {
	return d.DistillFn(ctx, markdown)
}
