package persist

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps map saves in a local SQLite file.
type SQLiteStore struct {
	db    *sql.DB
	level int
	log   *zap.Logger
}

// OpenSQLite opens (creating if needed) the save database at path and
// applies its migrations.
func OpenSQLite(ctx context.Context, path string, level int, log *zap.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	applied, err := migrateSQLite(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	log.Debug("sqlite save store ready", zap.String("path", path), zap.Int("migrations", applied))
	return &SQLiteStore{db: db, level: level, log: log}, nil
}

func (r *SQLiteStore) SaveMap(ctx context.Context, name string, snap Snapshot) error {
	body, err := EncodeBytes(snap, r.level)
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	h := snap.Header
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO map_saves (name, seed, turn, width, height, digest, body, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET
		     seed = excluded.seed, turn = excluded.turn, width = excluded.width,
		     height = excluded.height, digest = excluded.digest, body = excluded.body,
		     saved_at = excluded.saved_at`,
		name, h.Seed, h.Turn, h.Width, h.Height, h.Digest, body, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	r.log.Info("map saved", zap.String("name", name), zap.Int64("turn", h.Turn), zap.Int("bytes", len(body)))
	return nil
}

func (r *SQLiteStore) LoadMap(ctx context.Context, name string) (Snapshot, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `SELECT body FROM map_saves WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %q: %w", name, err)
	}
	return Decode(bytes.NewReader(body))
}

func (r *SQLiteStore) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, seed, turn, width, height, digest, length(body), saved_at
		 FROM map_saves ORDER BY saved_at DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		var h Header
		var name string
		var size int
		var savedAt int64
		if err := rows.Scan(&name, &h.Seed, &h.Turn, &h.Width, &h.Height, &h.Digest, &size, &savedAt); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		out = append(out, infoFromHeader(name, h, size, time.Unix(0, savedAt)))
	}
	return out, rows.Err()
}

func (r *SQLiteStore) Close() {
	r.db.Close()
}
