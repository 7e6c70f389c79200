package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"wpn/internal/shared"
)

// FetchResult pairs a requested URL with its raw markup or failure.
type FetchResult struct {
	URL  string
	Body []byte
	Err  error
}

// Fetcher issues HTTP GET requests against the upstream site, singly or as a
// rate-limited concurrent batch. It performs no retries; retry policy, if
// any, belongs to the caller.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	maxInFlight int
}

// NewFetcher creates a Fetcher with the given HTTP client, in-flight bound
// and request rate. A nil client falls back to [http.DefaultClient];
// non-positive bounds fall back to defaults that keep the upstream happy.
func NewFetcher(client *http.Client, maxInFlight int, requestsPerSecond float64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxInFlight <= 0 {
		maxInFlight = 8
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5.0
	}

	return &Fetcher{
		client:      client,
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), maxInFlight),
		maxInFlight: maxInFlight,
	}
}

// FetchOne performs a single GET request and returns the response body.
// Failures are wrapped with the shared sentinels: [shared.ErrTimeout],
// [shared.ErrBadStatus] or [shared.ErrNetwork].
func (f *Fetcher) FetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrNetwork, url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyFetchErr(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d for %s", shared.ErrBadStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyFetchErr(url, err)
	}

	return body, nil
}

// FetchMany retrieves every URL concurrently through a bounded worker pool.
//
// The returned slice always has one entry per input URL, in input order:
// each worker writes its result into the slot reserved for its request, so
// ordering holds regardless of completion order. A single URL's failure
// never aborts the batch. When the context deadline passes, requests that
// have not completed are reported as timeouts.
func (f *Fetcher) FetchMany(ctx context.Context, urls []string) []FetchResult {
	results := make([]FetchResult, len(urls))
	for i, url := range urls {
		results[i].URL = url
	}

	type job struct {
		index int
		url   string
	}

	jobs := make(chan job)
	var wg sync.WaitGroup

	workers := f.maxInFlight
	if workers > len(urls) {
		workers = len(urls)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := f.limiter.Wait(ctx); err != nil {
					results[j.index].Err = fmt.Errorf("%w: %s", shared.ErrTimeout, j.url)
					continue
				}
				results[j.index].Body, results[j.index].Err = f.FetchOne(ctx, j.url)
			}
		}()
	}

	for i, url := range urls {
		jobs <- job{index: i, url: url}
	}
	close(jobs)
	wg.Wait()

	return results
}

// classifyFetchErr maps transport errors onto the shared sentinel taxonomy.
func classifyFetchErr(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", shared.ErrTimeout, url)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s", shared.ErrTimeout, url)
	}

	return fmt.Errorf("%w: %s: %v", shared.ErrNetwork, url, err)
}
