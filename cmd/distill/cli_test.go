package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	main "github.com/fwojciec/distill/cmd/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads defaults and sites", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `defaults:
  depth: 2
  rps: 1.5
sites:
  example:
    url: https://example.com/docs/
    patterns:
      - /docs/*
`)

		cf, err := main.LoadConfigFile(path)

		require.NoError(t, err)
		require.NotNil(t, cf.Defaults.Depth)
		assert.Equal(t, 2, *cf.Defaults.Depth)
		require.NotNil(t, cf.Defaults.RPS)
		assert.InDelta(t, 1.5, *cf.Defaults.RPS, 0.001)
		require.Contains(t, cf.Sites, "example")
		assert.Equal(t, "https://example.com/docs/", cf.Sites["example"].URL)
		assert.Equal(t, []string{"/docs/*"}, cf.Sites["example"].Patterns)
	})

	t.Run("returns ErrConfigNotFound for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))

		require.ErrorIs(t, err, main.ErrConfigNotFound)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `invalid: yaml: content: [}`)

		_, err := main.LoadConfigFile(path)

		require.Error(t, err)
	})

	t.Run("initializes nil sites map", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `defaults:
  depth: 3
`)

		cf, err := main.LoadConfigFile(path)

		require.NoError(t, err)
		assert.NotNil(t, cf.Sites)
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("uses explicit path when it exists", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "defaults: {}")

		assert.Equal(t, path, main.FindConfigFile(path))
	})

	t.Run("returns empty for missing explicit path", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, main.FindConfigFile("/nonexistent/path/config.yaml"))
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags alone", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{
			URL:      "https://example.com/docs/",
			Depth:    2,
			Patterns: []string{"/docs/*"},
			Sitemap:  true,
		}

		cfg, name, err := main.BuildConfig(cli, nil)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/docs/", cfg.SeedURL)
		assert.Equal(t, 2, cfg.MaxDepth)
		assert.Equal(t, []string{"/docs/*"}, cfg.URLPatterns)
		assert.True(t, cfg.UseSitemap)
		assert.Equal(t, "example.com", name)
	})

	t.Run("negative depth flag falls back to default", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{URL: "https://example.com/", Depth: -1}

		cfg, _, err := main.BuildConfig(cli, nil)

		require.NoError(t, err)
		assert.Equal(t, distill.DefaultMaxDepth, cfg.MaxDepth)
	})

	t.Run("site entry fills unset fields", func(t *testing.T) {
		t.Parallel()

		depth := 3
		rps := 0.5
		timeout := "90s"
		file := &main.ConfigFile{
			Sites: map[string]main.SiteConfig{
				"example": {
					URL:      "https://example.com/docs/",
					Depth:    &depth,
					RPS:      &rps,
					Timeout:  &timeout,
					Patterns: []string{"/docs/*"},
				},
			},
		}
		cli := &main.CLI{Site: "example", Depth: -1}

		cfg, name, err := main.BuildConfig(cli, file)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/docs/", cfg.SeedURL)
		assert.Equal(t, 3, cfg.MaxDepth)
		assert.InDelta(t, 0.5, cfg.RequestsPerSecond, 0.001)
		assert.Equal(t, 90*time.Second, cfg.DistillTimeout)
		assert.Equal(t, []string{"/docs/*"}, cfg.URLPatterns)
		assert.Equal(t, "example", name)
	})

	t.Run("flags win over site entry", func(t *testing.T) {
		t.Parallel()

		depth := 3
		file := &main.ConfigFile{
			Sites: map[string]main.SiteConfig{
				"example": {
					URL:      "https://example.com/docs/",
					Depth:    &depth,
					Patterns: []string{"/docs/*"},
				},
			},
		}
		cli := &main.CLI{
			Site:     "example",
			URL:      "https://other.example.com/guide/",
			Depth:    1,
			Patterns: []string{"/guide/*"},
		}

		cfg, _, err := main.BuildConfig(cli, file)

		require.NoError(t, err)
		assert.Equal(t, "https://other.example.com/guide/", cfg.SeedURL)
		assert.Equal(t, 1, cfg.MaxDepth)
		assert.Equal(t, []string{"/guide/*"}, cfg.URLPatterns)
	})

	t.Run("defaults merge under site entry", func(t *testing.T) {
		t.Parallel()

		defaultDepth := 2
		siteDepth := 4
		file := &main.ConfigFile{
			Defaults: main.SiteConfig{
				Depth:   &defaultDepth,
				Domains: []string{"example.com"},
			},
			Sites: map[string]main.SiteConfig{
				"example": {
					URL:   "https://example.com/docs/",
					Depth: &siteDepth,
				},
			},
		}
		cli := &main.CLI{Site: "example", Depth: -1}

		cfg, _, err := main.BuildConfig(cli, file)

		require.NoError(t, err)
		assert.Equal(t, 4, cfg.MaxDepth)
		assert.Equal(t, []string{"example.com"}, cfg.AllowedDomains)
	})

	t.Run("unknown site errors", func(t *testing.T) {
		t.Parallel()

		file := &main.ConfigFile{Sites: map[string]main.SiteConfig{}}
		cli := &main.CLI{Site: "missing", Depth: -1}

		_, _, err := main.BuildConfig(cli, file)

		require.Error(t, err)
		assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
	})

	t.Run("site without config file errors", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{Site: "example", Depth: -1}

		_, _, err := main.BuildConfig(cli, nil)

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("invalid timeout in config file errors", func(t *testing.T) {
		t.Parallel()

		timeout := "not-a-duration"
		file := &main.ConfigFile{
			Sites: map[string]main.SiteConfig{
				"example": {URL: "https://example.com/", Timeout: &timeout},
			},
		}
		cli := &main.CLI{Site: "example", Depth: -1}

		_, _, err := main.BuildConfig(cli, file)

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("name flag wins over derived names", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{URL: "https://example.com/docs/", Name: "mydocs", Depth: -1}

		_, name, err := main.BuildConfig(cli, nil)

		require.NoError(t, err)
		assert.Equal(t, "mydocs", name)
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
