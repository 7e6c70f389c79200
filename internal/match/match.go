// Package match locates a song across the aggregated corpus by approximate
// string similarity.
package match

import (
	"fmt"
	"strings"

	"github.com/xrash/smetrics"

	"wpn/internal/models"
	"wpn/internal/shared"
)

// Similarity scores the closeness of two strings as a percentage in
// [0, 100]. The concrete metric is swappable without touching the
// identification logic.
type Similarity interface {
	Score(a, b string) int
}

// EditDistance implements [Similarity] on Wagner–Fischer edit distance with
// substitution cost 2, scaled against the longer input and clamped at 0.
type EditDistance struct{}

// Score compares two strings case-insensitively. Two empty strings score 100.
func (EditDistance) Score(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}

	distance := smetrics.WagnerFischer(a, b, 1, 1, 2)
	score := 100 - distance*100/maxLen
	if score < 0 {
		score = 0
	}
	return score
}

// Title and artist carry different weight when the query names both parts;
// the title is the stronger signal.
const (
	titleWeight  = 60
	artistWeight = 40
)

// Identifier scores a free-text query against every (channel, song) pair in
// a corpus. It applies no threshold of its own: the best available match is
// always returned, and deciding whether it is good enough is the caller's
// business.
type Identifier struct {
	sim       Similarity
	delimiter string
}

// NewIdentifier creates an Identifier. A nil similarity falls back to
// [EditDistance]; an empty delimiter falls back to the site convention.
func NewIdentifier(sim Similarity, delimiter string) *Identifier {
	if sim == nil {
		sim = EditDistance{}
	}
	if delimiter == "" {
		delimiter = " by "
	}
	return &Identifier{sim: sim, delimiter: delimiter}
}

// Identify returns the best-scoring (channel, song) pair for the query.
//
// The query is case-folded and whitespace-trimmed first. When it contains
// the "song by artist" delimiter it is split and the halves scored against
// title and artist separately (weighted 60/40); otherwise the whole query is
// scored against the song's combined "title artist" form.
//
// Ties keep the first pair encountered in corpus iteration order, which is
// deterministic because a corpus is ordered by directory index with each
// channel's live song preceding its history. A blank query fails with
// [shared.ErrInvalidQuery]; an empty corpus with [shared.ErrNoMatch].
func (id *Identifier) Identify(query string, corpus models.Corpus) (models.MatchResult, error) {
	normalized := shared.NormalizeQuery(query)
	if normalized == "" {
		return models.MatchResult{}, shared.ErrInvalidQuery
	}

	if len(corpus) == 0 {
		return models.MatchResult{}, shared.ErrNoMatch
	}

	titleQuery, artistQuery, split := id.splitQuery(normalized)

	var best models.MatchResult
	found := false

	for _, channelSongs := range corpus {
		for _, song := range channelSongs.AllSongs() {
			var score int
			if split {
				score = (id.sim.Score(titleQuery, song.Title)*titleWeight +
					id.sim.Score(artistQuery, song.Artist)*artistWeight) / 100
			} else {
				score = id.sim.Score(normalized, combined(song))
			}

			if !found || score > best.Confidence {
				best = models.MatchResult{
					Channel:    channelSongs.Channel,
					Song:       song,
					Confidence: score,
				}
				found = true
			}
		}
	}

	return best, nil
}

// splitQuery separates a "title by artist" query on the delimiter. Queries
// where either half would be empty are treated as unsplit.
func (id *Identifier) splitQuery(query string) (title, artist string, ok bool) {
	delimiter := strings.ToLower(id.delimiter)

	parts := strings.SplitN(query, delimiter, 2)
	if len(parts) < 2 {
		return "", "", false
	}

	title = strings.TrimSpace(parts[0])
	artist = strings.TrimSpace(parts[1])
	if title == "" || artist == "" {
		return "", "", false
	}

	return title, artist, true
}

// combined renders a song in the "title artist" form queries are scored
// against.
func combined(song models.Song) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", song.Title, song.Artist))
}
