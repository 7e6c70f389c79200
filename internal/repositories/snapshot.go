// package repositories provides the persistence layer for saved aggregation passes.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"wpn/internal/models"
	"wpn/internal/shared"
)

// SnapshotRepository stores and retrieves corpus snapshots.
//
// A snapshot is one aggregation pass flattened into snapshot_songs rows;
// position 0 within a channel is the live song.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save persists a corpus as a new snapshot and returns its metadata.
func (r *SnapshotRepository) Save(corpus models.Corpus) (models.Snapshot, error) {
	snapshot := models.Snapshot{
		ID:           shared.GenerateID(),
		CreatedAt:    time.Now().UTC(),
		ChannelCount: len(corpus),
	}
	for _, channelSongs := range corpus {
		snapshot.SongCount += len(channelSongs.AllSongs())
	}

	tx, err := r.db.Begin()
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO snapshots (id, created_at, channel_count, song_count) VALUES (?, ?, ?, ?)",
		snapshot.ID, snapshot.CreatedAt, snapshot.ChannelCount, snapshot.SongCount,
	)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	songQuery := `
		INSERT INTO snapshot_songs (snapshot_id, channel_name, channel_identifier, channel_index, position, title, artist)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for _, channelSongs := range corpus {
		for position, song := range channelSongs.AllSongs() {
			_, err = tx.Exec(songQuery,
				snapshot.ID,
				channelSongs.Channel.Name,
				channelSongs.Channel.Identifier,
				channelSongs.Channel.Index,
				position,
				song.Title,
				song.Artist,
			)
			if err != nil {
				return models.Snapshot{}, fmt.Errorf("failed to insert snapshot song: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return snapshot, nil
}

// List returns snapshot metadata, newest first.
func (r *SnapshotRepository) List() ([]models.Snapshot, error) {
	rows, err := r.db.Query(
		"SELECT id, created_at, channel_count, song_count FROM snapshots ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var snapshot models.Snapshot
		if err := rows.Scan(&snapshot.ID, &snapshot.CreatedAt, &snapshot.ChannelCount, &snapshot.SongCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// Get reconstructs a stored corpus by snapshot ID.
func (r *SnapshotRepository) Get(id string) (models.Snapshot, models.Corpus, error) {
	var snapshot models.Snapshot
	err := r.db.QueryRow(
		"SELECT id, created_at, channel_count, song_count FROM snapshots WHERE id = ?", id,
	).Scan(&snapshot.ID, &snapshot.CreatedAt, &snapshot.ChannelCount, &snapshot.SongCount)
	if err == sql.ErrNoRows {
		return models.Snapshot{}, nil, fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}
	if err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT channel_name, channel_identifier, channel_index, position, title, artist
		FROM snapshot_songs
		WHERE snapshot_id = ?
		ORDER BY channel_index, position
	`, id)
	if err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("failed to query snapshot songs: %w", err)
	}
	defer rows.Close()

	var corpus models.Corpus
	for rows.Next() {
		var channel models.Channel
		var position int
		var song models.Song

		err := rows.Scan(&channel.Name, &channel.Identifier, &channel.Index, &position, &song.Title, &song.Artist)
		if err != nil {
			return models.Snapshot{}, nil, fmt.Errorf("failed to scan snapshot song: %w", err)
		}

		if len(corpus) == 0 || corpus[len(corpus)-1].Channel.Identifier != channel.Identifier {
			corpus = append(corpus, models.ChannelSongs{Channel: channel})
		}

		entry := &corpus[len(corpus)-1]
		if position == 0 {
			entry.Current = song
		} else {
			entry.Previous = append(entry.Previous, song)
		}
	}

	if err := rows.Err(); err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("failed to iterate snapshot songs: %w", err)
	}

	return snapshot, corpus, nil
}

// Delete removes a snapshot and its songs.
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}

	// snapshot_songs rows cascade when foreign keys are enforced; sweep
	// explicitly so the store stays clean either way.
	if _, err := r.db.Exec("DELETE FROM snapshot_songs WHERE snapshot_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete snapshot songs: %w", err)
	}

	return nil
}
