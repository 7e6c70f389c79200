// Package aggregate orchestrates the per-channel fetches that build the
// unified song corpus.
package aggregate

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"wpn/internal/catalog"
	"wpn/internal/models"
	"wpn/internal/scrape"
	"wpn/internal/shared"
)

// Aggregator retrieves song data for single channels and assembles the
// full-corpus view across every channel in the directory.
type Aggregator struct {
	catalog *catalog.Catalog
	fetcher *scrape.Fetcher
	parser  *scrape.Parser
	site    shared.SiteConfig
	logger  *log.Logger
}

// New creates an Aggregator. A nil logger falls back to the shared default.
func New(cat *catalog.Catalog, fetcher *scrape.Fetcher, parser *scrape.Parser, site shared.SiteConfig, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Aggregator{
		catalog: cat,
		fetcher: fetcher,
		parser:  parser,
		site:    site,
		logger:  logger,
	}
}

// ChannelSongs fetches and parses one channel's now-playing page.
func (a *Aggregator) ChannelSongs(ctx context.Context, channel models.Channel) (models.ChannelSongs, error) {
	markup, err := a.fetcher.FetchOne(ctx, a.site.ChannelURL(channel.Identifier))
	if err != nil {
		return models.ChannelSongs{}, fmt.Errorf("channel %q: %w", channel.Name, err)
	}

	current, previous, err := a.parser.ParseChannelPage(markup)
	if err != nil {
		return models.ChannelSongs{}, fmt.Errorf("channel %q: %w", channel.Name, err)
	}

	return models.ChannelSongs{Channel: channel, Current: current, Previous: previous}, nil
}

// CurrentSong returns the song playing right now on the given channel.
func (a *Aggregator) CurrentSong(ctx context.Context, channel models.Channel) (models.Song, error) {
	data, err := a.ChannelSongs(ctx, channel)
	if err != nil {
		return models.Song{}, err
	}
	return data.Current, nil
}

// PreviousSongs returns the channel's historical list, most-recent-first.
func (a *Aggregator) PreviousSongs(ctx context.Context, channel models.Channel) ([]models.Song, error) {
	data, err := a.ChannelSongs(ctx, channel)
	if err != nil {
		return nil, err
	}
	return data.Previous, nil
}

// AllSongs returns the combined listing for a channel: the live song at
// index 0 followed by the previous songs. One page fetch serves the whole
// listing, so current and previous can never come from different page loads.
func (a *Aggregator) AllSongs(ctx context.Context, channel models.Channel) ([]models.Song, error) {
	data, err := a.ChannelSongs(ctx, channel)
	if err != nil {
		return nil, err
	}
	return data.AllSongs(), nil
}

// AllChannelsData fetches every channel's page concurrently and assembles
// the corpus in directory order.
//
// Channels whose fetch or parse fails are omitted from the corpus and
// reported in the returned failure list, so callers can distinguish "no
// data" from "nothing playing". Only a directory failure aborts the pass.
func (a *Aggregator) AllChannelsData(ctx context.Context) (models.Corpus, []models.ChannelFailure, error) {
	channels, err := a.catalog.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	urls := make([]string, len(channels))
	for i, channel := range channels {
		urls[i] = a.site.ChannelURL(channel.Identifier)
	}

	results := a.fetcher.FetchMany(ctx, urls)

	corpus := make(models.Corpus, 0, len(channels))
	var failures []models.ChannelFailure

	for i, result := range results {
		channel := channels[i]

		if result.Err != nil {
			a.logger.Warn("channel fetch failed", "channel", channel.Name, "err", result.Err)
			failures = append(failures, models.ChannelFailure{Channel: channel, Err: result.Err})
			continue
		}

		current, previous, err := a.parser.ParseChannelPage(result.Body)
		if err != nil {
			a.logger.Warn("channel parse failed", "channel", channel.Name, "err", err)
			failures = append(failures, models.ChannelFailure{Channel: channel, Err: err})
			continue
		}

		corpus = append(corpus, models.ChannelSongs{
			Channel:  channel,
			Current:  current,
			Previous: previous,
		})
	}

	return corpus, failures, nil
}
