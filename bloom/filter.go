// Package bloom provides URL deduplication using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure Filter implements blogscout.URLDeduper at compile time.
var _ blogscout.URLDeduper = (*Filter)(nil)

// Filter remembers processed URLs using a Bloom filter. A false positive
// skips a URL; there are no false negatives, so a URL is never processed
// twice.
//
// Filter is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen tests and records the URL in one step. The first call for a URL
// returns false; every later call returns true.
func (f *Filter) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestOrAddString(url)
}

// Test returns true if the URL might be in the filter, without
// recording it.
func (f *Filter) Test(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
