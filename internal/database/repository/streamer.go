package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"clipforge/internal/database"
	"clipforge/internal/database/models"
)

// StreamerRepository handles channel identities shared across compilations.
type StreamerRepository struct {
	db *database.DB
}

func NewStreamerRepository(db *database.DB) *StreamerRepository {
	return &StreamerRepository{db: db}
}

// GetOrCreate returns the streamer for (username, platform), inserting it
// on first sight. The insert-then-select against the unique index makes
// concurrent first-sight races converge on a single row.
func (r *StreamerRepository) GetOrCreate(username, platform, platformID string) (*models.Streamer, error) {
	_, err := r.db.Exec(
		`INSERT INTO streamers (id, username, platform, platform_id) VALUES (?, ?, ?, ?)
			ON CONFLICT(username, platform) DO NOTHING`,
		uuid.NewString(), username, platform, platformID,
	)
	if err != nil {
		return nil, fmt.Errorf("create streamer %s/%s: %w", username, platform, err)
	}

	return r.FindByKey(username, platform)
}

// FindByKey returns the streamer for (username, platform), or ErrNotFound.
func (r *StreamerRepository) FindByKey(username, platform string) (*models.Streamer, error) {
	var streamer models.Streamer
	err := r.db.QueryRow(
		`SELECT id, username, platform, platform_id FROM streamers
			WHERE username = ? AND platform = ?`,
		username, platform,
	).Scan(&streamer.ID, &streamer.Username, &streamer.Platform, &streamer.PlatformID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find streamer %s/%s: %w", username, platform, err)
	}
	return &streamer, nil
}

// Count returns the number of streamer rows.
func (r *StreamerRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM streamers`).Scan(&count)
	return count, err
}
