// Package catalog maintains the in-process registry of upstream channels.
//
// The directory is fetched and parsed once, on first use, and memoized for
// the process lifetime; picking up newly added channels requires a restart.
// Concurrent first callers share a single directory fetch.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"wpn/internal/models"
	"wpn/internal/scrape"
	"wpn/internal/shared"
)

// ChannelRef addresses a channel either by display name or by directory
// position. Numeric CLI input is treated as an index, everything else as a
// case-insensitive name.
type ChannelRef struct {
	name    string
	index   int
	byIndex bool
}

// ByName returns a ChannelRef that resolves by case-insensitive exact name.
func ByName(name string) ChannelRef {
	return ChannelRef{name: name}
}

// ByIndex returns a ChannelRef that resolves by directory position.
func ByIndex(index int) ChannelRef {
	return ChannelRef{index: index, byIndex: true}
}

// ParseRef interprets free-form CLI input: an integer becomes an index
// reference, anything else a name reference.
func ParseRef(input string) ChannelRef {
	input = strings.TrimSpace(input)
	if index, err := strconv.Atoi(input); err == nil {
		return ByIndex(index)
	}
	return ByName(input)
}

func (r ChannelRef) String() string {
	if r.byIndex {
		return fmt.Sprintf("#%d", r.index)
	}
	return r.name
}

// Catalog is the single owner of the memoized channel set. All other
// components receive [models.Channel] values from it and never mutate them.
type Catalog struct {
	fetcher *scrape.Fetcher
	parser  *scrape.Parser
	site    shared.SiteConfig

	group singleflight.Group

	mu       sync.RWMutex
	channels []models.Channel
}

// New creates a Catalog backed by the given fetcher and parser.
func New(fetcher *scrape.Fetcher, parser *scrape.Parser, site shared.SiteConfig) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		parser:  parser,
		site:    site,
	}
}

// List returns every channel in directory order, fetching and parsing the
// directory page on first call. The singleflight group guarantees that
// concurrent first callers trigger exactly one upstream fetch; losers wait
// for and share the winner's result.
func (c *Catalog) List(ctx context.Context) ([]models.Channel, error) {
	c.mu.RLock()
	cached := c.channels
	c.mu.RUnlock()

	if cached != nil {
		return cached, nil
	}

	result, err, _ := c.group.Do("directory", func() (any, error) {
		return c.fetchDirectory(ctx)
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.Channel), nil
}

// Resolve maps a ChannelRef to its Channel value, failing with
// [shared.ErrChannelNotFound] for an unknown name or an index outside
// [0, count).
func (c *Catalog) Resolve(ctx context.Context, ref ChannelRef) (models.Channel, error) {
	channels, err := c.List(ctx)
	if err != nil {
		return models.Channel{}, err
	}

	if ref.byIndex {
		if ref.index < 0 || ref.index >= len(channels) {
			return models.Channel{}, fmt.Errorf("%w: index %d outside [0, %d)", shared.ErrChannelNotFound, ref.index, len(channels))
		}
		return channels[ref.index], nil
	}

	for _, channel := range channels {
		if strings.EqualFold(channel.Name, ref.name) {
			return channel, nil
		}
	}

	return models.Channel{}, fmt.Errorf("%w: %q", shared.ErrChannelNotFound, ref.name)
}

// fetchDirectory performs the one-time directory fetch+parse and caches the
// channel set. Failures are not cached, so a later call may retry.
func (c *Catalog) fetchDirectory(ctx context.Context) ([]models.Channel, error) {
	c.mu.RLock()
	cached := c.channels
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	markup, err := c.fetcher.FetchOne(ctx, c.site.DirectoryURL())
	if err != nil {
		return nil, fmt.Errorf("directory fetch: %w", err)
	}

	entries, err := c.parser.ParseDirectory(markup)
	if err != nil {
		return nil, fmt.Errorf("directory parse: %w", err)
	}

	channels := make([]models.Channel, len(entries))
	for i, entry := range entries {
		channels[i] = models.Channel{
			Name:       entry.Name,
			Identifier: entry.Identifier,
			Index:      i,
		}
	}

	c.mu.Lock()
	c.channels = channels
	c.mu.Unlock()

	return channels, nil
}
