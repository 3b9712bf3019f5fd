// Package database owns the sqlite metadata store shared by the ingestion
// and render stages. The store is the durable record of pipeline progress
// and survives process restarts.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the sqlite database at path and runs
// migrations. The returned handle is safe for concurrent use and is passed
// explicitly to every repository; there is no process-global store.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout covers concurrent clip tasks writing during ingestion.
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	db := &DB{DB: sqlDB}
	if err := db.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			step TEXT NOT NULL,
			output TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS streamers (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			platform TEXT NOT NULL,
			platform_id TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_streamers_username_platform
			ON streamers(username, platform)`,

		`CREATE TABLE IF NOT EXISTS clips (
			id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL,
			streamer_id TEXT NOT NULL,
			clip_order INTEGER NOT NULL,
			platform TEXT NOT NULL,
			platform_id TEXT NOT NULL,
			platform_url TEXT NOT NULL,
			duration REAL NOT NULL,
			file_path TEXT NOT NULL,
			trim_start REAL NOT NULL,
			trim_end REAL NOT NULL,
			trim_action BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE,
			FOREIGN KEY (streamer_id) REFERENCES streamers(id)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_clips_video_order
			ON clips(video_id, clip_order)`,
		`CREATE INDEX IF NOT EXISTS idx_clips_video_id ON clips(video_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
