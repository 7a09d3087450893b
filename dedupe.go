package blogscout

// URLDeduper remembers which URLs a run has already processed. Seen is
// test-and-set: the first call for a URL returns false and records it,
// every later call returns true. Implementations may be probabilistic;
// a false positive skips a URL, never corrupts a record.
type URLDeduper interface {
	Seen(url string) bool
}
