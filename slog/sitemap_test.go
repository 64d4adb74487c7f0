package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/distill/mock"
	dslog "github.com/fwojciec/distill/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs discovery with count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
				return []string{
					"https://example.com/docs/a",
					"https://example.com/docs/b",
				}, nil
			},
		}

		svc := dslog.NewLoggingSitemapService(inner, logger)
		urls, err := svc.DiscoverURLs(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		output := buf.String()
		assert.Contains(t, output, "sitemap discovery")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
				return nil, errors.New("robots unavailable")
			},
		}

		svc := dslog.NewLoggingSitemapService(inner, logger)
		_, err := svc.DiscoverURLs(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"robots unavailable\"")
	})
}

func TestLoggingDistiller_Distill(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Distiller{
		DistillFn: func(ctx context.Context, markdown string) (string, error) {
			return "distilled", nil
		},
	}

	d := dslog.NewLoggingDistiller(inner, logger)
	out, err := d.Distill(context.Background(), "# Raw page markdown")

	require.NoError(t, err)
	assert.Equal(t, "distilled", out)
	output := buf.String()
	assert.Contains(t, output, "distill")
	assert.Contains(t, output, "in_bytes=19")
	assert.Contains(t, output, "out_bytes=9")
}
