package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"wpn/internal/catalog"
	"wpn/internal/shared"
)

// Channels lists the upstream channel directory.
func (r *Runner) Channels(ctx context.Context, cmd *cli.Command) error {
	channels, err := r.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list channels: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(channels, cmd.Bool("pretty"))
	}

	for _, channel := range channels {
		r.writePlain("%3d  %s\n", channel.Index, channel.Name)
	}

	return nil
}

// Playing shows what a channel is playing. The channel argument accepts a
// directory index or a case-insensitive name.
func (r *Runner) Playing(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("channel")
	if input == "" {
		return fmt.Errorf("%w: channel name or index", shared.ErrMissingArgument)
	}

	channel, err := r.catalog.Resolve(ctx, catalog.ParseRef(input))
	if err != nil {
		return err
	}

	delimiter := r.config.Site.Delimiter

	switch {
	case cmd.Bool("all"):
		songs, err := r.aggregator.AllSongs(ctx, channel)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(songs, cmd.Bool("pretty"))
		}
		for i, song := range songs {
			marker := "  "
			if i == 0 {
				marker = "▶ "
			}
			r.writePlain("%s%s\n", marker, song.Display(delimiter))
		}

	case cmd.Bool("previous"):
		songs, err := r.aggregator.PreviousSongs(ctx, channel)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(songs, cmd.Bool("pretty"))
		}
		for _, song := range songs {
			r.writePlain("%s\n", song.Display(delimiter))
		}

	default:
		song, err := r.aggregator.CurrentSong(ctx, channel)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(song, cmd.Bool("pretty"))
		}
		r.writePlain("%s: %s\n", channel.Name, song.Display(delimiter))
	}

	return nil
}

// Identify locates the channel most likely playing the queried song.
func (r *Runner) Identify(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")

	// Reject a blank query before paying for the full aggregation pass.
	if shared.NormalizeQuery(query) == "" {
		return fmt.Errorf("%w: provide a song title, optionally with \"%s<artist>\"", shared.ErrInvalidQuery, r.config.Site.Delimiter)
	}

	corpus, failures, err := r.aggregator.AllChannelsData(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate channel data: %w", err)
	}
	for _, failure := range failures {
		r.logger.Warn("channel skipped", "channel", failure.Channel.Name, "err", failure.Err)
	}

	result, err := r.identifier.Identify(query, corpus)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidQuery) {
			return fmt.Errorf("%w: provide a song title, optionally with \"%s<artist>\"", err, r.config.Site.Delimiter)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlain("Channel:    %s\n", result.Channel.Name)
	r.writePlain("Song:       %s\n", result.Song.Display(r.config.Site.Delimiter))
	r.writePlain("Confidence: %d%%\n", result.Confidence)

	return nil
}
