package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of distill.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}

var _ distill.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of distill.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}
