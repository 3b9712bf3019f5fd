package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clipforge/internal/database"
	"clipforge/internal/database/models"
)

// VideoRepository handles compilation records.
type VideoRepository struct {
	db *database.DB
}

func NewVideoRepository(db *database.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Find returns the video with the given id, or ErrNotFound.
func (r *VideoRepository) Find(id string) (*models.Video, error) {
	var video models.Video
	err := r.db.QueryRow(
		`SELECT id, step, output, created_at FROM videos WHERE id = ?`, id,
	).Scan(&video.ID, &video.Step, &video.Output, &video.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find video %s: %w", id, err)
	}
	return &video, nil
}

// CreateIfAbsent inserts a new video and reports whether it was created.
// An existing id is a conflict signal, not an error: the record is left
// untouched and created is false.
func (r *VideoRepository) CreateIfAbsent(video *models.Video) (created bool, err error) {
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now()
	}
	res, err := r.db.Exec(
		`INSERT INTO videos (id, step, output, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
		video.ID, video.Step, video.Output, video.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("create video %s: %w", video.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create video %s: %w", video.ID, err)
	}
	return rows == 1, nil
}

// SetStep records the pipeline stage the video has entered.
func (r *VideoRepository) SetStep(id string, step models.Step) error {
	if _, err := r.db.Exec(`UPDATE videos SET step = ? WHERE id = ?`, step, id); err != nil {
		return fmt.Errorf("update video %s step: %w", id, err)
	}
	return nil
}

// SetOutput records the rendered output path.
func (r *VideoRepository) SetOutput(id, output string) error {
	if _, err := r.db.Exec(`UPDATE videos SET output = ? WHERE id = ?`, output, id); err != nil {
		return fmt.Errorf("update video %s output: %w", id, err)
	}
	return nil
}

// List returns all videos, oldest first.
func (r *VideoRepository) List() ([]models.Video, error) {
	rows, err := r.db.Query(`SELECT id, step, output, created_at FROM videos ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var video models.Video
		if err := rows.Scan(&video.ID, &video.Step, &video.Output, &video.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}
