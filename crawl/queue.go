package crawl

import "sync"

// Queue is a BFS queue with URL deduplication and an optional size cap.
type Queue struct {
	mu      sync.Mutex
	items   []string
	visited map[string]bool
	limit   int
}

// NewQueue creates an empty Queue holding at most limit URLs.
// A limit of zero or less means unbounded.
func NewQueue(limit int) *Queue {
	return &Queue{
		visited: make(map[string]bool),
		limit:   limit,
	}
}

// Add enqueues a URL if it hasn't been seen before and the queue has
// room. It reports whether the URL was added.
func (q *Queue) Add(url string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.visited[url] || q.full() {
		return false
	}
	q.visited[url] = true
	q.items = append(q.items, url)
	return true
}

// Full reports whether the size cap has been reached.
func (q *Queue) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.full()
}

func (q *Queue) full() bool {
	return q.limit > 0 && len(q.items) >= q.limit
}

// Len returns the number of URLs added.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// All returns all discovered URLs in insertion order.
func (q *Queue) All() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.items...)
}
