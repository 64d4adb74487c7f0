package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of distill.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*distill.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*distill.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ distill.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of distill.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL)
}
