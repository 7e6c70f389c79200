package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wpn/internal/shared"
)

func TestFetchOne(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>ok</html>")
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), 4, 100)
		body, err := fetcher.FetchOne(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if string(body) != "<html>ok</html>" {
			t.Errorf("unexpected body: %s", body)
		}
	})

	t.Run("Bad Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), 4, 100)
		_, err := fetcher.FetchOne(context.Background(), server.URL)
		if !errors.Is(err, shared.ErrBadStatus) {
			t.Errorf("expected ErrBadStatus, got %v", err)
		}

		if !strings.Contains(err.Error(), "503") {
			t.Errorf("expected status code in error, got %v", err)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), 4, 100)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := fetcher.FetchOne(ctx, server.URL)
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("Network Failure", func(t *testing.T) {
		fetcher := NewFetcher(nil, 4, 100)

		_, err := fetcher.FetchOne(context.Background(), "http://127.0.0.1:1/unreachable")
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})
}

func TestFetchMany(t *testing.T) {
	t.Run("Order Matches Input Under Uneven Latency", func(t *testing.T) {
		// Earlier URLs respond slower than later ones, so completion order
		// is the reverse of request order.
		delays := map[string]time.Duration{
			"/a": 120 * time.Millisecond,
			"/b": 60 * time.Millisecond,
			"/c": 0,
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(delays[r.URL.Path])
			fmt.Fprintf(w, "body of %s", r.URL.Path)
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), 4, 1000)
		urls := []string{server.URL + "/a", server.URL + "/b", server.URL + "/c"}

		results := fetcher.FetchMany(context.Background(), urls)
		if len(results) != len(urls) {
			t.Fatalf("expected %d results, got %d", len(urls), len(results))
		}

		for i, result := range results {
			if result.URL != urls[i] {
				t.Errorf("result %d has URL %s, want %s", i, result.URL, urls[i])
			}
			if result.Err != nil {
				t.Errorf("result %d failed: %v", i, result.Err)
			}
			wantBody := fmt.Sprintf("body of /%c", 'a'+i)
			if string(result.Body) != wantBody {
				t.Errorf("result %d body = %q, want %q", i, result.Body, wantBody)
			}
		}
	})

	t.Run("One Failure Does Not Abort Batch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/bad" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, "ok")
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), 2, 1000)
		urls := []string{server.URL + "/good", server.URL + "/bad", server.URL + "/good"}

		results := fetcher.FetchMany(context.Background(), urls)

		if results[0].Err != nil || results[2].Err != nil {
			t.Errorf("healthy URLs should succeed: %v, %v", results[0].Err, results[2].Err)
		}

		if !errors.Is(results[1].Err, shared.ErrBadStatus) {
			t.Errorf("expected ErrBadStatus for /bad, got %v", results[1].Err)
		}
	})

	t.Run("Deadline Turns Stragglers Into Timeouts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/slow" {
				time.Sleep(300 * time.Millisecond)
			}
			fmt.Fprint(w, "ok")
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), 4, 1000)
		urls := []string{server.URL + "/fast", server.URL + "/slow", server.URL + "/fast"}

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		results := fetcher.FetchMany(ctx, urls)

		if results[0].Err != nil || results[2].Err != nil {
			t.Errorf("fast URLs should succeed: %v, %v", results[0].Err, results[2].Err)
		}

		if !errors.Is(results[1].Err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout for /slow, got %v", results[1].Err)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		fetcher := NewFetcher(nil, 4, 100)

		results := fetcher.FetchMany(context.Background(), nil)
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}
