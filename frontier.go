package distill

// Frontier manages the breadth-first crawl queue with deduplication.
// Admission checks, the visited set, and the queue live behind a single
// synchronized boundary; no other component touches the underlying state.
type Frontier interface {
	// Enqueue admits a URL discovered at the given depth.
	// It is a no-op (returning false) when the depth exceeds the bound,
	// the URL fails the pre-fetch filter checks, or the URL's canonical
	// form has already been seen. The visited set is updated at enqueue
	// time so that concurrent discoveries of the same URL cannot both
	// be admitted.
	Enqueue(url string, depth int) bool

	// DequeueBatch removes up to n tasks from the front of the queue,
	// preserving FIFO order.
	DequeueBatch(n int) []CrawlTask

	// Len returns the number of queued tasks.
	Len() int

	// Seen reports whether the URL's canonical form has been admitted.
	Seen(url string) bool
}
