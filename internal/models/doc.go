// Package models defines domain entities shared across the wpn scraper core
// and its collaborators.
//
// The package contains two categories of types:
//
// 1. Scraper values: plain, serialization-ready structs produced by the core
//   - [Channel] : directory entry (name, opaque identifier, position)
//   - [Song] : title/artist pair with empty string as the canonical unknown
//   - [ChannelSongs] : one channel's live song plus history
//   - [Corpus] : ordered aggregation across every channel
//   - [MatchResult] : fuzzy identification outcome with confidence score
//
// 2. Persistence records:
//   - [Snapshot] : metadata for a stored aggregation pass
//
// [Channel] values are created once per process when the directory is first
// fetched and are immutable thereafter; every other component receives them
// by value and never mutates them.
package models
