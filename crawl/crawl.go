// Package crawl provides the crawl pipeline: breadth-first frontier
// management and the bounded-concurrency fetch+distill pipeline that streams
// sections to the output writer as pages complete.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
	"golang.org/x/sync/errgroup"
)

// Frontier sizing and safety bounds.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for the
	// fast-path dedup check. False positives fall through to the exact set.
	frontierFalsePositiveRate = 0.01
	// maxCrawlURLs limits the number of URLs dispatched to prevent runaway crawls.
	maxCrawlURLs = 1000
)

// Crawler drives the frontier to exhaustion, bounding concurrent
// fetch+distill pipelines and isolating per-page failures.
type Crawler struct {
	Fetcher     distill.Fetcher
	Extractor   distill.Extractor
	Converter   distill.Converter
	Distiller   distill.Distiller
	Writer      distill.SectionWriter
	RateLimiter distill.DomainLimiter
	Sitemaps    distill.SitemapService
	RetryDelays []time.Duration
}

// Stats summarizes a completed run.
type Stats struct {
	// Visited counts tasks dispatched to the pipeline.
	Visited int
	// Extracted counts sections appended to the output.
	Extracted int
	// Failed counts pages lost to fetch or distillation errors.
	Failed int
	// Skipped counts pages quietly rejected by the content-type check.
	Skipped int
	// Bytes is the total distilled markdown appended.
	Bytes int
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types emitted during a run.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type  ProgressType
	URL   string
	Depth int
	Error error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pipelineResult holds the outcome of processing a single task.
type pipelineResult struct {
	task    distill.CrawlTask
	section *distill.Section
	links   []string
	skipped bool
	err     error
}

// Run crawls from the configured seed until the frontier is exhausted.
//
// Per-page fetch and distillation failures are reported through progress
// events and never abort the run. Only a configuration contract violation
// or a writer failure is fatal. Sections reach the writer in completion
// order, which may differ from discovery order.
func (c *Crawler) Run(ctx context.Context, cfg distill.Config, progress ProgressFunc) (*Stats, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := distill.NewFilter(cfg)
	if err != nil {
		return nil, err
	}

	frontier := NewFrontier(filter, cfg.MaxDepth, frontierExpectedURLs, frontierFalsePositiveRate)
	if !frontier.Enqueue(cfg.SeedURL, 0) {
		return nil, distill.Errorf(distill.EINVALID, "seed URL %q is rejected by the configured filters", cfg.SeedURL)
	}
	c.seedFromSitemap(ctx, cfg, frontier)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, URL: cfg.SeedURL})
	}

	stats := &Stats{}
	err = c.walkFrontier(ctx, cfg, filter, frontier, stats, progress)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished})
	}
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// seedFromSitemap enqueues sitemap-advertised URLs at depth 0. Sitemap
// discovery failures are non-fatal; the seed alone is enough to crawl.
func (c *Crawler) seedFromSitemap(ctx context.Context, cfg distill.Config, frontier *Frontier) {
	if !cfg.UseSitemap || c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, cfg.SeedURL)
	if err != nil {
		return
	}
	for _, u := range urls {
		frontier.Enqueue(u, 0)
	}
}

// walkFrontier is the coordinator loop. Workers run the per-page pipeline;
// the coordinator owns the frontier and the writer hand-off: it dispatches
// tasks, enqueues discovered links, and appends completed sections.
func (c *Crawler) walkFrontier(ctx context.Context, cfg distill.Config, filter *distill.Filter, frontier *Frontier, stats *Stats, progress ProgressFunc) error {
	workCh := make(chan distill.CrawlTask, cfg.Concurrency)
	resultCh := make(chan pipelineResult)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Concurrency; i++ {
		g.Go(func() error {
			for task := range workCh {
				result := c.process(gctx, cfg, filter, task)
				select {
				case resultCh <- result:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	dispatched := 0
	pending := 0
	var next *distill.CrawlTask
	if batch := frontier.DequeueBatch(1); len(batch) == 1 {
		next = &batch[0]
	}

	var fatal error

coordinatorLoop:
	for {
		if next == nil && pending == 0 {
			break coordinatorLoop
		}
		if ctx.Err() != nil {
			break coordinatorLoop
		}

		if next != nil && dispatched < maxCrawlURLs && fatal == nil {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- *next:
				dispatched++
				pending++
				stats.Visited++
				next = nil
			case result := <-resultCh:
				pending--
				if fatal == nil {
					fatal = c.handleResult(ctx, &result, frontier, stats, progress)
				}
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case result, ok := <-resultCh:
				if !ok {
					break coordinatorLoop
				}
				pending--
				if fatal == nil {
					fatal = c.handleResult(ctx, &result, frontier, stats, progress)
				}
			}
		}

		if fatal != nil && pending == 0 {
			break coordinatorLoop
		}
		if next == nil && dispatched < maxCrawlURLs && fatal == nil {
			if batch := frontier.DequeueBatch(1); len(batch) == 1 {
				next = &batch[0]
			}
		}
	}

	// Let in-flight pipelines finish so the writer sees every completed
	// section before the run ends.
	close(workCh)
	drainTimeout := time.After(5 * time.Second)
drainLoop:
	for {
		select {
		case result, ok := <-resultCh:
			if !ok {
				break drainLoop
			}
			if fatal == nil {
				fatal = c.handleResult(ctx, &result, frontier, stats, progress)
			}
		case <-drainTimeout:
			break drainLoop
		}
	}

	if fatal != nil {
		return fatal
	}
	return ctx.Err()
}

// handleResult folds one pipeline outcome into the run: enqueue discovered
// links, record stats, report progress, and hand completed sections to the
// writer. A writer failure is the only fatal outcome.
func (c *Crawler) handleResult(ctx context.Context, result *pipelineResult, frontier *Frontier, stats *Stats, progress ProgressFunc) error {
	for _, link := range result.links {
		frontier.Enqueue(link, result.task.Depth+1)
	}

	switch {
	case result.err != nil:
		stats.Failed++
		if progress != nil {
			progress(ProgressEvent{Type: ProgressFailed, URL: result.task.URL, Depth: result.task.Depth, Error: result.err})
		}
	case result.skipped:
		stats.Skipped++
		if progress != nil {
			progress(ProgressEvent{Type: ProgressSkipped, URL: result.task.URL, Depth: result.task.Depth})
		}
	default:
		if err := c.Writer.Append(ctx, result.section); err != nil {
			stats.Failed++
			return distill.Errorf(distill.EINTERNAL, "appending section for %s: %v", result.task.URL, err)
		}
		stats.Extracted++
		stats.Bytes += len(result.section.Markdown)
		if progress != nil {
			progress(ProgressEvent{Type: ProgressCompleted, URL: result.task.URL, Depth: result.task.Depth})
		}
	}
	return nil
}

// process runs the per-page pipeline for one task: rate limit, fetch with
// retry, content-type recheck, extract, convert, distill. Discovered links
// are returned for the coordinator to enqueue even when a later stage fails
// them (a page whose distillation fails still contributes its links).
func (c *Crawler) process(ctx context.Context, cfg distill.Config, filter *distill.Filter, task distill.CrawlTask) pipelineResult {
	result := pipelineResult{task: task}

	if c.RateLimiter != nil {
		taskURL, err := url.Parse(task.URL)
		if err != nil {
			result.err = distill.Errorf(distill.EINVALID, "invalid task URL %q: %v", task.URL, err)
			return result
		}
		if err := c.RateLimiter.Wait(ctx, taskURL.Host); err != nil {
			result.err = err
			return result
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetched, err := FetchWithRetryDelays(ctx, task.URL, c.Fetcher.Fetch, delays)
	if err != nil {
		result.err = fmt.Errorf("fetch %s: %w", task.URL, err)
		return result
	}
	result.links = fetched.Links

	// Content type is only knowable post-fetch; rejection here is a normal
	// outcome for off-scope content, not an error. An off-scope page
	// contributes no links.
	if !filter.AdmitContentType(fetched.ContentType) {
		result.skipped = true
		result.links = nil
		return result
	}

	extracted, err := c.Extractor.Extract(string(fetched.Content))
	if err != nil {
		result.err = fmt.Errorf("extract %s: %w", task.URL, err)
		return result
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		result.err = fmt.Errorf("convert %s: %w", task.URL, err)
		return result
	}

	distillCtx, cancel := context.WithTimeout(ctx, cfg.DistillTimeout)
	defer cancel()
	condensed, err := c.Distiller.Distill(distillCtx, markdown)
	if err != nil {
		result.err = fmt.Errorf("distill %s: %w", task.URL, err)
		return result
	}

	result.section = &distill.Section{
		SourceURL:   task.URL,
		Title:       extracted.Title,
		Markdown:    condensed,
		ContentHash: fmt.Sprintf("%x", xxhash.Sum64String(condensed)),
		DistilledAt: time.Now(),
	}
	return result
}
