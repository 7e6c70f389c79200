package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wpn/internal/catalog"
	"wpn/internal/scrape"
	"wpn/internal/shared"
)

// testSite wires a catalog and aggregator against a fake upstream serving
// three channels. Channel pages are looked up by identifier; unknown
// identifiers 404 and a "slow" entry in delays stalls that channel.
func testSite(t *testing.T, pages map[string]string, delays map[string]time.Duration) *Aggregator {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/channels" {
			fmt.Fprint(w, `<ul class="channel-list">
				<li><a class="channel-link" href="/nowplaying?channel=alpha">Alpha</a></li>
				<li><a class="channel-link" href="/nowplaying?channel=beta">Beta</a></li>
				<li><a class="channel-link" href="/nowplaying?channel=gamma">Gamma</a></li>
			</ul>`)
			return
		}

		id := r.URL.Query().Get("channel")
		if d, ok := delays[id]; ok {
			time.Sleep(d)
		}

		page, ok := pages[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, page)
	}))
	t.Cleanup(server.Close)

	site := shared.SiteConfig{
		BaseURL:       server.URL,
		DirectoryPath: "/channels",
		ChannelPath:   "/nowplaying",
		Delimiter:     " by ",
	}

	fetcher := scrape.NewFetcher(server.Client(), 4, 1000)
	parser := scrape.NewParser(site.Delimiter)
	cat := catalog.New(fetcher, parser, site)

	return New(cat, fetcher, parser, site, shared.NewLogger(io.Discard))
}

func channelPage(current string, previous ...string) string {
	page := fmt.Sprintf(`<div class="now-playing">%s</div><ul class="recently-played">`, current)
	for _, entry := range previous {
		page += fmt.Sprintf("<li>%s</li>", entry)
	}
	return page + "</ul>"
}

func TestSingleChannelQueries(t *testing.T) {
	pages := map[string]string{
		"alpha": channelPage("Wonderwall by Oasis", "Creep by Radiohead", "Zombie by The Cranberries"),
		"beta":  channelPage("Africa by Toto"),
		"gamma": channelPage("Yesterday by The Beatles", "Let It Be by The Beatles"),
	}

	agg := testSite(t, pages, nil)
	ctx := context.Background()

	channel, err := agg.catalog.Resolve(ctx, catalog.ByName("Alpha"))
	if err != nil {
		t.Fatalf("failed to resolve channel: %v", err)
	}

	t.Run("CurrentSong", func(t *testing.T) {
		song, err := agg.CurrentSong(ctx, channel)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if song.Title != "Wonderwall" || song.Artist != "Oasis" {
			t.Errorf("current = %+v, want Wonderwall/Oasis", song)
		}
	})

	t.Run("PreviousSongs Order Preserved", func(t *testing.T) {
		songs, err := agg.PreviousSongs(ctx, channel)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(songs) != 2 {
			t.Fatalf("expected 2 previous songs, got %d", len(songs))
		}

		if songs[0].Title != "Creep" || songs[1].Title != "Zombie" {
			t.Errorf("previous order = %q then %q, want Creep then Zombie", songs[0].Title, songs[1].Title)
		}
	})

	t.Run("AllSongs Is Current Plus Previous", func(t *testing.T) {
		all, err := agg.AllSongs(ctx, channel)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		current, err := agg.CurrentSong(ctx, channel)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		previous, err := agg.PreviousSongs(ctx, channel)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(all) != len(previous)+1 {
			t.Fatalf("expected %d songs, got %d", len(previous)+1, len(all))
		}

		if all[0] != current {
			t.Errorf("all[0] = %+v, want current %+v", all[0], current)
		}

		for i, song := range previous {
			if all[i+1] != song {
				t.Errorf("all[%d] = %+v, want %+v", i+1, all[i+1], song)
			}
		}
	})

	t.Run("Empty Previous List", func(t *testing.T) {
		beta, err := agg.catalog.Resolve(ctx, catalog.ByName("Beta"))
		if err != nil {
			t.Fatalf("failed to resolve channel: %v", err)
		}

		songs, err := agg.PreviousSongs(ctx, beta)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(songs) != 0 {
			t.Errorf("expected no previous songs, got %d", len(songs))
		}
	})
}

func TestAllChannelsData(t *testing.T) {
	t.Run("Full Corpus In Directory Order", func(t *testing.T) {
		pages := map[string]string{
			"alpha": channelPage("Wonderwall by Oasis"),
			"beta":  channelPage("Africa by Toto"),
			"gamma": channelPage("Yesterday by The Beatles"),
		}

		agg := testSite(t, pages, nil)
		corpus, failures, err := agg.AllChannelsData(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(failures) != 0 {
			t.Errorf("expected no failures, got %d", len(failures))
		}

		wantNames := []string{"Alpha", "Beta", "Gamma"}
		if len(corpus) != len(wantNames) {
			t.Fatalf("expected %d corpus entries, got %d", len(wantNames), len(corpus))
		}

		for i, entry := range corpus {
			if entry.Channel.Name != wantNames[i] {
				t.Errorf("corpus[%d] channel = %q, want %q", i, entry.Channel.Name, wantNames[i])
			}
		}
	})

	t.Run("Timed Out Channel Is Omitted And Recorded", func(t *testing.T) {
		pages := map[string]string{
			"alpha": channelPage("Wonderwall by Oasis"),
			"beta":  channelPage("Africa by Toto"),
			"gamma": channelPage("Yesterday by The Beatles"),
		}
		delays := map[string]time.Duration{"beta": 400 * time.Millisecond}

		agg := testSite(t, pages, delays)

		// Warm the catalog before the deadline applies: the timeout under
		// test targets the channel fan-out, not the directory fetch.
		if _, err := agg.catalog.List(context.Background()); err != nil {
			t.Fatalf("failed to warm catalog: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()

		corpus, failures, err := agg.AllChannelsData(ctx)
		if err != nil {
			t.Fatalf("expected no batch error, got %v", err)
		}

		if len(corpus) != 2 {
			t.Fatalf("expected 2 surviving channels, got %d", len(corpus))
		}
		if corpus[0].Channel.Name != "Alpha" || corpus[1].Channel.Name != "Gamma" {
			t.Errorf("surviving channels = %q, %q; want Alpha, Gamma", corpus[0].Channel.Name, corpus[1].Channel.Name)
		}

		if len(failures) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(failures))
		}
		if failures[0].Channel.Name != "Beta" {
			t.Errorf("failed channel = %q, want Beta", failures[0].Channel.Name)
		}
		if !errors.Is(failures[0].Err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", failures[0].Err)
		}
	})

	t.Run("Unparsable Channel Is Omitted And Recorded", func(t *testing.T) {
		pages := map[string]string{
			"alpha": channelPage("Wonderwall by Oasis"),
			"beta":  "<html><body>redesigned page</body></html>",
			"gamma": channelPage("Yesterday by The Beatles"),
		}

		agg := testSite(t, pages, nil)
		corpus, failures, err := agg.AllChannelsData(context.Background())
		if err != nil {
			t.Fatalf("expected no batch error, got %v", err)
		}

		if len(corpus) != 2 {
			t.Errorf("expected 2 surviving channels, got %d", len(corpus))
		}

		if len(failures) != 1 || !errors.Is(failures[0].Err, shared.ErrParse) {
			t.Errorf("expected one ErrParse failure, got %+v", failures)
		}
	})
}
