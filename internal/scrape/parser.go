package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wpn/internal/models"
	"wpn/internal/shared"
)

// DirectoryEntry is one row of the channel directory: the display name and
// the opaque identifier the site uses to address the channel's page.
type DirectoryEntry struct {
	Name       string
	Identifier string
}

// Parser extracts the channel directory and per-channel song data from the
// site's markup. It targets one fixed page layout and does not generalize.
type Parser struct {
	delimiter string
}

// NewParser creates a Parser splitting song entries on the given delimiter,
// e.g. " by ". An empty delimiter falls back to the site's convention.
func NewParser(delimiter string) *Parser {
	if delimiter == "" {
		delimiter = " by "
	}
	return &Parser{delimiter: delimiter}
}

// ParseDirectory extracts the ordered (name, identifier) listing from the
// directory page. The returned order matches document order. Anchors whose
// href carries no channel parameter are skipped so every returned identifier
// is non-empty. Returns [shared.ErrParse] when the directory structure is
// absent, which signals upstream layout drift.
func (p *Parser) ParseDirectory(markup []byte) ([]DirectoryEntry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}

	list := doc.Find("ul.channel-list")
	if list.Length() == 0 {
		return nil, fmt.Errorf("%w: channel list missing from directory page", shared.ErrParse)
	}

	var entries []DirectoryEntry
	list.Find("a.channel-link").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")

		identifier := channelParam(href)
		if name == "" || identifier == "" {
			return
		}

		entries = append(entries, DirectoryEntry{Name: name, Identifier: identifier})
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: directory page lists no channels", shared.ErrParse)
	}

	return entries, nil
}

// ParseChannelPage extracts the live song and the historical list from a
// channel page. The historical ordering is preserved exactly as the page
// presents it; the site renders it most-recent-first, which is an observed
// convention rather than a verified guarantee. A page with no history
// section yields an empty previous list without error; a page with no
// now-playing element fails with [shared.ErrParse].
func (p *Parser) ParseChannelPage(markup []byte) (models.Song, []models.Song, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return models.Song{}, nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}

	nowPlaying := doc.Find("div.now-playing").First()
	if nowPlaying.Length() == 0 {
		return models.Song{}, nil, fmt.Errorf("%w: now-playing element missing from channel page", shared.ErrParse)
	}

	current := p.splitSong(nowPlaying.Text())

	var previous []models.Song
	doc.Find("ul.recently-played li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			// Malformed entry: degrade by skipping it, never fail the parse.
			return
		}
		previous = append(previous, p.splitSong(text))
	})

	return current, previous, nil
}

// splitSong separates "Title by Artist" on the configured delimiter. When
// the delimiter is absent the whole text becomes the title with an empty
// artist.
func (p *Parser) splitSong(text string) models.Song {
	text = strings.TrimSpace(text)

	parts := strings.SplitN(text, p.delimiter, 2)
	if len(parts) < 2 {
		return models.Song{Title: text}
	}

	return models.Song{
		Title:  strings.TrimSpace(parts[0]),
		Artist: strings.TrimSpace(parts[1]),
	}
}

// channelParam pulls the channel identifier out of a directory anchor href.
func channelParam(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("channel")
}
