package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neontwilight/sim/internal/config"
	"go.uber.org/zap"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SaveInfo describes one stored save without its map body.
type SaveInfo struct {
	Name    string
	Seed    int64
	Turn    int64
	Width   int
	Height  int
	Digest  string
	Size    int
	SavedAt time.Time
}

// Store keeps named map snapshots. Saving under an existing name replaces it.
type Store interface {
	SaveMap(ctx context.Context, name string, snap Snapshot) error
	LoadMap(ctx context.Context, name string) (Snapshot, error)
	ListSaves(ctx context.Context) ([]SaveInfo, error)
	Close()
}

// OpenStore connects the store selected by cfg.Driver and applies its
// migrations. An empty driver disables saving and returns a nil Store.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, level int, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "postgres":
		st, err := OpenPG(ctx, cfg, level, log)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "sqlite":
		st, err := OpenSQLite(ctx, cfg.DSN, level, log)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

func infoFromHeader(name string, h Header, size int, at time.Time) SaveInfo {
	return SaveInfo{
		Name:    name,
		Seed:    h.Seed,
		Turn:    h.Turn,
		Width:   h.Width,
		Height:  h.Height,
		Digest:  h.Digest,
		Size:    size,
		SavedAt: at,
	}
}
