package persist

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// RunMigrations brings the Postgres schema up to date and returns the number
// of migrations applied.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrate(ctx, db, database.DialectPostgres, "migrations/postgres")
}

func migrateSQLite(ctx context.Context, db *sql.DB) (int, error) {
	return migrate(ctx, db, database.DialectSQLite3, "migrations/sqlite")
}

func migrate(ctx context.Context, db *sql.DB, dialect database.Dialect, dir string) (int, error) {
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return 0, fmt.Errorf("migrations %s: %w", dir, err)
	}
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("migration provider: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("run migrations: %w", err)
	}
	return len(results), nil
}
