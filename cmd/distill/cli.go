package main

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/distill"
	"gopkg.in/yaml.v3"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL          string        `arg:"" optional:"" help:"Seed URL of the documentation site"`
	Name         string        `short:"n" help:"Base name for the output file (default: seed host)"`
	Site         string        `short:"s" help:"Named site entry from the config file"`
	Depth        int           `short:"d" default:"-1" help:"Maximum link distance from the seed"`
	Domains      []string      `help:"Allowed domains (default: seed host)"`
	Patterns     []string      `help:"URL path glob patterns (* spans path segments, ? matches one character)"`
	ContentTypes []string      `name:"content-types" help:"Allowed content types (default: text/html)"`
	External     bool          `help:"Follow links outside the allowed domains"`
	Concurrency  int           `short:"c" default:"0" help:"Concurrent page pipelines"`
	RPS          float64       `name:"rps" default:"0" help:"Max requests per second per domain"`
	Timeout      time.Duration `short:"t" default:"0s" help:"Per-page distillation timeout"`
	Sitemap      bool          `help:"Also seed the crawl from the site's sitemap"`
	Out          string        `short:"o" default:"out" help:"Output directory"`
	Config       string        `help:"Path to a YAML site config file"`
	Verbose      bool          `short:"v" help:"Enable debug logging"`
}

// DefaultConfigFile is the site config file searched for in the current
// and home directories when --config is not given.
const DefaultConfigFile = ".distill.yaml"

// ErrConfigNotFound is returned when the site config file does not exist.
var ErrConfigNotFound = errors.New("site config file not found")

// SiteConfig holds per-site settings from the YAML config file. Pointer
// fields distinguish "unset" from an explicit zero.
type SiteConfig struct {
	URL          string   `yaml:"url"`
	Name         string   `yaml:"name"`
	Depth        *int     `yaml:"depth"`
	Domains      []string `yaml:"domains"`
	Patterns     []string `yaml:"patterns"`
	ContentTypes []string `yaml:"content_types"`
	External     *bool    `yaml:"external"`
	Concurrency  *int     `yaml:"concurrency"`
	RPS          *float64 `yaml:"rps"`
	Timeout      *string  `yaml:"timeout"`
	Sitemap      *bool    `yaml:"sitemap"`
}

// ConfigFile is the YAML site config file: shared defaults plus named
// per-site entries.
type ConfigFile struct {
	Defaults SiteConfig            `yaml:"defaults"`
	Sites    map[string]SiteConfig `yaml:"sites"`
}

// LoadConfigFile loads site configurations from a YAML file.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf ConfigFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}
	return &cf, nil
}

// FindConfigFile resolves the config file path: the explicit path when
// given, otherwise DefaultConfigFile in the current directory, then the
// home directory. Returns empty when no file is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// merge overlays a site entry on the file defaults. Set fields in site win.
func merge(defaults, site SiteConfig) SiteConfig {
	out := defaults
	if site.URL != "" {
		out.URL = site.URL
	}
	if site.Name != "" {
		out.Name = site.Name
	}
	if site.Depth != nil {
		out.Depth = site.Depth
	}
	if len(site.Domains) > 0 {
		out.Domains = site.Domains
	}
	if len(site.Patterns) > 0 {
		out.Patterns = site.Patterns
	}
	if len(site.ContentTypes) > 0 {
		out.ContentTypes = site.ContentTypes
	}
	if site.External != nil {
		out.External = site.External
	}
	if site.Concurrency != nil {
		out.Concurrency = site.Concurrency
	}
	if site.RPS != nil {
		out.RPS = site.RPS
	}
	if site.Timeout != nil {
		out.Timeout = site.Timeout
	}
	if site.Sitemap != nil {
		out.Sitemap = site.Sitemap
	}
	return out
}

// BuildConfig resolves the crawl configuration from CLI flags and an
// optional site config file. CLI flags win over file values; anything
// left unset falls back to the built-in defaults at run time.
func BuildConfig(cli *CLI, file *ConfigFile) (distill.Config, string, error) {
	var site SiteConfig
	if file != nil {
		site = file.Defaults
		if cli.Site != "" {
			entry, ok := file.Sites[cli.Site]
			if !ok {
				return distill.Config{}, "", distill.Errorf(distill.ENOTFOUND, "site %q not found in config file", cli.Site)
			}
			site = merge(file.Defaults, entry)
		}
	} else if cli.Site != "" {
		return distill.Config{}, "", distill.Errorf(distill.EINVALID, "--site requires a config file")
	}

	cfg := distill.Config{
		SeedURL:             cli.URL,
		MaxDepth:            distill.DefaultMaxDepth,
		AllowedDomains:      cli.Domains,
		URLPatterns:         cli.Patterns,
		AllowedContentTypes: cli.ContentTypes,
		IncludeExternal:     cli.External,
		Concurrency:         cli.Concurrency,
		DistillTimeout:      cli.Timeout,
		RequestsPerSecond:   cli.RPS,
		UseSitemap:          cli.Sitemap,
	}

	if cfg.SeedURL == "" {
		cfg.SeedURL = site.URL
	}
	if cli.Depth >= 0 {
		cfg.MaxDepth = cli.Depth
	} else if site.Depth != nil {
		cfg.MaxDepth = *site.Depth
	}
	if len(cfg.AllowedDomains) == 0 {
		cfg.AllowedDomains = site.Domains
	}
	if len(cfg.URLPatterns) == 0 {
		cfg.URLPatterns = site.Patterns
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = site.ContentTypes
	}
	if !cfg.IncludeExternal && site.External != nil {
		cfg.IncludeExternal = *site.External
	}
	if cfg.Concurrency == 0 && site.Concurrency != nil {
		cfg.Concurrency = *site.Concurrency
	}
	if cfg.RequestsPerSecond == 0 && site.RPS != nil {
		cfg.RequestsPerSecond = *site.RPS
	}
	if cfg.DistillTimeout == 0 && site.Timeout != nil {
		d, err := time.ParseDuration(*site.Timeout)
		if err != nil {
			return distill.Config{}, "", distill.Errorf(distill.EINVALID, "invalid timeout %q in config file", *site.Timeout)
		}
		cfg.DistillTimeout = d
	}
	if !cfg.UseSitemap && site.Sitemap != nil {
		cfg.UseSitemap = *site.Sitemap
	}

	name := cli.Name
	if name == "" {
		name = site.Name
	}
	if name == "" && cli.Site != "" {
		name = cli.Site
	}
	if name == "" {
		if u, err := url.Parse(cfg.SeedURL); err == nil {
			name = u.Hostname()
		}
	}

	return cfg, name, nil
}
