package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neontwilight/sim/internal/config"
	"go.uber.org/zap"
)

// PGStore keeps map saves in Postgres. It owns its connection pool.
type PGStore struct {
	pool  *pgxpool.Pool
	level int
	log   *zap.Logger
}

// OpenPG connects to cfg.DSN, checks the server answers within five seconds
// and brings the schema up to date.
func OpenPG(ctx context.Context, cfg config.DatabaseConfig, level int, log *zap.Logger) (*PGStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MinConns = int32(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	applied, err := RunMigrations(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	log.Debug("postgres save store ready",
		zap.Int("migrations", applied),
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Duration("conn_lifetime", poolCfg.MaxConnLifetime),
	)
	return &PGStore{pool: pool, level: level, log: log}, nil
}

func (r *PGStore) SaveMap(ctx context.Context, name string, snap Snapshot) error {
	body, err := EncodeBytes(snap, r.level)
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	h := snap.Header
	_, err = r.pool.Exec(ctx,
		`INSERT INTO map_saves (name, seed, turn, width, height, digest, body, saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (name) DO UPDATE SET
		     seed = EXCLUDED.seed, turn = EXCLUDED.turn, width = EXCLUDED.width,
		     height = EXCLUDED.height, digest = EXCLUDED.digest, body = EXCLUDED.body,
		     saved_at = EXCLUDED.saved_at`,
		name, h.Seed, h.Turn, h.Width, h.Height, h.Digest, body,
	)
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	r.log.Info("map saved", zap.String("name", name), zap.Int64("turn", h.Turn), zap.Int("bytes", len(body)))
	return nil
}

func (r *PGStore) LoadMap(ctx context.Context, name string) (Snapshot, error) {
	var body []byte
	err := r.pool.QueryRow(ctx,
		`SELECT body FROM map_saves WHERE name = $1`, name,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %q: %w", name, err)
	}
	return Decode(bytes.NewReader(body))
}

func (r *PGStore) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, seed, turn, width, height, digest, octet_length(body), saved_at
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
		var savedAt time.Time
		if err := rows.Scan(&name, &h.Seed, &h.Turn, &h.Width, &h.Height, &h.Digest, &size, &savedAt); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		out = append(out, infoFromHeader(name, h, size, savedAt))
	}
	return out, rows.Err()
}

func (r *PGStore) Close() {
	r.pool.Close()
}
