package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"wpn/internal/formatter"
	"wpn/internal/repositories"
	"wpn/internal/shared"
)

// HistorySave aggregates every channel and persists the pass as a snapshot.
func (r *Runner) HistorySave(ctx context.Context, cmd *cli.Command) error {
	corpus, failures, err := r.aggregator.AllChannelsData(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate channel data: %w", err)
	}
	for _, failure := range failures {
		r.logger.Warn("channel skipped", "channel", failure.Channel.Name, "err", failure.Err)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSnapshotRepository(db)
	snapshot, err := repo.Save(corpus)
	if err != nil {
		return err
	}

	r.logger.Info("snapshot saved", "id", snapshot.ID, "channels", snapshot.ChannelCount, "songs", snapshot.SongCount)
	r.writePlainln("✓ Snapshot %s saved (%d channels, %d songs)", snapshot.ID, snapshot.ChannelCount, snapshot.SongCount)

	return nil
}

// HistoryList prints stored snapshots, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	snapshots, err := repositories.NewSnapshotRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshots, cmd.Bool("pretty"))
	}

	if len(snapshots) == 0 {
		r.writePlain("No snapshots saved yet.\n")
		return nil
	}

	for _, snapshot := range snapshots {
		r.writePlain("%s  %s  %d channels, %d songs\n",
			snapshot.ID,
			snapshot.CreatedAt.Format("2006-01-02 15:04:05"),
			snapshot.ChannelCount,
			snapshot.SongCount,
		)
	}

	return nil
}

// HistoryShow renders a stored snapshot in the requested format.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: snapshot id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	_, corpus, err := repositories.NewSnapshotRepository(db).Get(id)
	if err != nil {
		return err
	}

	data, err := formatter.Export(corpus, cmd.String("format"), r.config.Site.Delimiter)
	if err != nil {
		return err
	}

	return r.writePlain("%s", data)
}

// HistoryDelete removes a stored snapshot.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: snapshot id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewSnapshotRepository(db).Delete(id); err != nil {
		return err
	}

	r.writePlainln("✓ Snapshot %s deleted", id)
	return nil
}
