package distill_test

import (
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate_requires_seed_URL(t *testing.T) {
	t.Parallel()

	cfg := &distill.Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
}

func TestConfig_Validate_rejects_unparsable_seed(t *testing.T) {
	t.Parallel()

	cfg := &distill.Config{SeedURL: "://not-a-url"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
}

func TestConfig_Validate_rejects_non_http_scheme(t *testing.T) {
	t.Parallel()

	cfg := &distill.Config{SeedURL: "ftp://example.com/docs"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, distill.ErrorMessage(err), "scheme")
}

func TestConfig_Validate_rejects_seed_outside_allowed_domains(t *testing.T) {
	t.Parallel()

	cfg := &distill.Config{
		SeedURL:        "https://example.com/docs/",
		AllowedDomains: []string{"other.com"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
}

func TestConfig_Validate_allows_external_seed_when_configured(t *testing.T) {
	t.Parallel()

	cfg := &distill.Config{
		SeedURL:         "https://example.com/docs/",
		AllowedDomains:  []string{"other.com"},
		IncludeExternal: true,
	}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_rejects_negative_depth(t *testing.T) {
	t.Parallel()

	cfg := &distill.Config{SeedURL: "https://example.com/", MaxDepth: -1}
	require.Error(t, cfg.Validate())
}

func TestConfig_WithDefaults_fills_zero_values(t *testing.T) {
	t.Parallel()

	cfg := distill.Config{SeedURL: "https://docs.example.com/start"}.WithDefaults()

	assert.Equal(t, distill.DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, distill.DefaultDistillTimeout, cfg.DistillTimeout)
	assert.Equal(t, []string{"text/html"}, cfg.AllowedContentTypes)
	assert.Equal(t, []string{"docs.example.com"}, cfg.AllowedDomains, "seed host becomes the allowed domain")
}

func TestConfig_WithDefaults_preserves_explicit_values(t *testing.T) {
	t.Parallel()

	cfg := distill.Config{
		SeedURL:             "https://docs.example.com/start",
		Concurrency:         2,
		DistillTimeout:      5 * time.Second,
		AllowedDomains:      []string{"example.com"},
		AllowedContentTypes: []string{"text/plain"},
	}.WithDefaults()

	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.DistillTimeout)
	assert.Equal(t, []string{"example.com"}, cfg.AllowedDomains)
	assert.Equal(t, []string{"text/plain"}, cfg.AllowedContentTypes)
}
