// package models defines the data model for channel and song metadata
package models

import (
	"time"
)

// Channel identifies a single music stream in the upstream directory.
//
// Identifier is the opaque key the site uses to address the channel's
// now-playing page. Index is the channel's position in the directory and is
// stable only within one fetch of the directory.
type Channel struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Index      int    `json:"index"`
}

// Song is a value type. Either field may be empty when the upstream markup
// omits it; the empty string is the canonical "unknown".
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Display renders the song with the given delimiter, e.g. "Title by Artist".
// A song with no artist renders as the bare title.
func (s Song) Display(delimiter string) string {
	if s.Artist == "" {
		return s.Title
	}
	return s.Title + delimiter + s.Artist
}

// ChannelSongs holds one channel's now-playing data: the live song plus the
// historical list, most-recent-first. Values are replaced wholesale on each
// aggregation pass, never patched.
type ChannelSongs struct {
	Channel  Channel `json:"channel"`
	Current  Song    `json:"current"`
	Previous []Song  `json:"previous"`
}

// AllSongs returns the combined listing with the live song at index 0,
// followed by the previous songs most-recent-first.
func (cs ChannelSongs) AllSongs() []Song {
	songs := make([]Song, 0, len(cs.Previous)+1)
	songs = append(songs, cs.Current)
	songs = append(songs, cs.Previous...)
	return songs
}

// Corpus is the aggregated song data across all channels, ordered by
// directory index. The slice ordering makes iteration deterministic, which
// downstream matching relies on for tie-breaking.
type Corpus []ChannelSongs

// ChannelFailure records a channel whose fetch or parse failed during an
// aggregation pass. Failed channels are omitted from the Corpus so that
// missing data is never mistaken for "nothing playing".
type ChannelFailure struct {
	Channel Channel `json:"channel"`
	Err     error   `json:"-"`
}

// MatchResult is the outcome of a fuzzy identification: the best-scoring
// (channel, song) pair and a confidence percentage in [0, 100].
type MatchResult struct {
	Channel    Channel `json:"channel"`
	Song       Song    `json:"song"`
	Confidence int     `json:"confidence"`
}

// Snapshot is a persisted record of one aggregation pass.
type Snapshot struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ChannelCount int       `json:"channel_count"`
	SongCount    int       `json:"song_count"`
}
