// Package scrape retrieves and parses now-playing pages from the upstream
// music-channel site.
//
// [Fetcher] handles the HTTP boundary: single GETs and rate-limited
// concurrent batches whose output order always matches input order.
// [Parser] handles the markup boundary: the channel directory listing and
// per-channel song pages, tolerating malformed individual entries but
// failing loudly when an expected structural element disappears.
package scrape
