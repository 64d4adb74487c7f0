package distill

import "time"

// CrawlTask is a unit of crawl work: a URL admitted into the frontier and
// the link distance at which it was discovered. The seed has depth 0.
type CrawlTask struct {
	URL   string
	Depth int
}

// FetchResult holds a successfully fetched page. It is consumed immediately
// by the pipeline and never persisted.
type FetchResult struct {
	URL         string
	Content     []byte
	ContentType string

	// Links are the page's outbound links as absolute URLs, in document
	// order. They feed the frontier at depth+1.
	Links []string
}

// Section is one appended unit of output: the distilled markdown for one
// successfully processed page.
type Section struct {
	SourceURL   string
	Title       string
	Markdown    string
	ContentHash string
	DistilledAt time.Time
}
