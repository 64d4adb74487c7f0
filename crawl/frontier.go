package crawl

import (
	"sync"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/bloom"
)

// Compile-time interface verification.
var _ distill.Frontier = (*Frontier)(nil)

// Frontier is an in-memory breadth-first crawl queue with visit-once
// semantics. Admission (filter, depth bound, dedup) and the visited-set
// insert happen in a single critical section, so two concurrent discoveries
// of the same URL cannot both be admitted.
//
// Deduplication keys are canonical URLs. A Bloom filter answers the common
// "never seen" case without touching the exact set; the exact set backs it
// so a Bloom false positive can never drop a page.
type Frontier struct {
	mu       sync.Mutex
	filter   *distill.Filter
	maxDepth int
	probably *bloom.Filter
	visited  map[string]struct{}
	queue    []distill.CrawlTask
	head     int
}

// NewFrontier creates a Frontier bounded by maxDepth. URLs failing the
// filter's pre-fetch checks are rejected at enqueue time. The frontier is
// safe for concurrent use by multiple goroutines.
func NewFrontier(filter *distill.Filter, maxDepth int, expectedURLs uint, fpRate float64) *Frontier {
	return &Frontier{
		filter:   filter,
		maxDepth: maxDepth,
		probably: bloom.NewFilter(expectedURLs, fpRate),
		visited:  make(map[string]struct{}),
	}
}

// Enqueue admits a URL discovered at the given depth.
// Returns false when the task was not admitted: depth beyond the bound,
// filter rejection, unparsable URL, or already seen.
func (f *Frontier) Enqueue(rawURL string, depth int) bool {
	if depth > f.maxDepth {
		return false
	}
	// The filter sees the URL as discovered; the seed "/docs/" must match a
	// "/docs/*" pattern even though its canonical form drops the slash.
	if f.filter != nil && !f.filter.AdmitURL(rawURL) {
		return false
	}
	canonical, err := distill.Canonicalize(rawURL)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.probably.Test(canonical) {
		if _, ok := f.visited[canonical]; ok {
			return false
		}
	}
	f.probably.Add(canonical)
	f.visited[canonical] = struct{}{}
	f.queue = append(f.queue, distill.CrawlTask{URL: rawURL, Depth: depth})
	return true
}

// DequeueBatch removes up to n tasks from the front of the queue in FIFO
// order. Returns nil when the queue is empty.
func (f *Frontier) DequeueBatch(n int) []distill.CrawlTask {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n <= 0 || f.head >= len(f.queue) {
		return nil
	}
	end := f.head + n
	if end > len(f.queue) {
		end = len(f.queue)
	}
	batch := make([]distill.CrawlTask, end-f.head)
	copy(batch, f.queue[f.head:end])
	f.head = end

	// Reclaim the consumed prefix once everything queued has been handed out.
	if f.head == len(f.queue) {
		f.queue = f.queue[:0]
		f.head = 0
	}
	return batch
}

// Len returns the number of queued tasks.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// Seen reports whether the URL's canonical form has been admitted.
func (f *Frontier) Seen(rawURL string) bool {
	canonical, err := distill.Canonicalize(rawURL)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.probably.Test(canonical) {
		return false
	}
	_, ok := f.visited[canonical]
	return ok
}
