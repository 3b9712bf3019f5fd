package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"clipforge/internal/database"
	"clipforge/internal/database/models"
)

// ClipRepository handles per-compilation clip records. Clips are owned by
// their video and recreated wholesale when a video is re-ingested.
type ClipRepository struct {
	db *database.DB
}

// ClipWithStreamer joins a clip with its owning streamer's username for
// render-time display.
type ClipWithStreamer struct {
	models.Clip
	Username string
}

func NewClipRepository(db *database.DB) *ClipRepository {
	return &ClipRepository{db: db}
}

// Create inserts a clip record, generating an id when absent.
func (r *ClipRepository) Create(clip *models.Clip) error {
	if clip.ID == "" {
		clip.ID = uuid.NewString()
	}
	if clip.CreatedAt.IsZero() {
		clip.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(
		`INSERT INTO clips (id, video_id, streamer_id, clip_order, platform, platform_id,
			platform_url, duration, file_path, trim_start, trim_end, trim_action, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		clip.ID, clip.VideoID, clip.StreamerID, clip.Order, clip.Platform, clip.PlatformID,
		clip.PlatformURL, clip.Duration, clip.FilePath, clip.TrimStart, clip.TrimEnd,
		clip.TrimAction, clip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create clip %d for video %s: %w", clip.Order, clip.VideoID, err)
	}
	return nil
}

// DeleteForVideo removes all clips owned by a video.
func (r *ClipRepository) DeleteForVideo(videoID string) error {
	if _, err := r.db.Exec(`DELETE FROM clips WHERE video_id = ?`, videoID); err != nil {
		return fmt.Errorf("delete clips for video %s: %w", videoID, err)
	}
	return nil
}

// ListForVideo returns a video's clips joined with their streamer's
// username, sorted by order ascending.
func (r *ClipRepository) ListForVideo(videoID string) ([]ClipWithStreamer, error) {
	rows, err := r.db.Query(
		`SELECT c.id, c.video_id, c.streamer_id, c.clip_order, c.platform, c.platform_id,
			c.platform_url, c.duration, c.file_path, c.trim_start, c.trim_end, c.trim_action,
			c.created_at, s.username
			FROM clips c
			JOIN streamers s ON s.id = c.streamer_id
			WHERE c.video_id = ?
			ORDER BY c.clip_order ASC`,
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("list clips for video %s: %w", videoID, err)
	}
	defer rows.Close()

	var clips []ClipWithStreamer
	for rows.Next() {
		var clip ClipWithStreamer
		if err := rows.Scan(
			&clip.ID, &clip.VideoID, &clip.StreamerID, &clip.Order, &clip.Platform,
			&clip.PlatformID, &clip.PlatformURL, &clip.Duration, &clip.FilePath,
			&clip.TrimStart, &clip.TrimEnd, &clip.TrimAction, &clip.CreatedAt,
			&clip.Username,
		); err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clips = append(clips, clip)
	}
	return clips, rows.Err()
}

// CountForVideo returns the number of clips owned by a video.
func (r *ClipRepository) CountForVideo(videoID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM clips WHERE video_id = ?`, videoID).Scan(&count)
	return count, err
}
