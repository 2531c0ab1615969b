package repo

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The embedded migration tree carries both dialects side by side: Postgres
// files at the root, SQLite files under sqliteMigrationsDir. Each backend
// selects its own set so neither ever executes the other's dialect.
const sqliteMigrationsDir = "sqlite"

// migrationFiles lists the .sql files of one dialect directory in
// lexicographical order. dir "." selects the Postgres set at the root.
func migrationFiles(filesystem fs.FS, dir string) ([]string, error) {
	names, err := fs.Glob(filesystem, path.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations in %s: %w", dir, err)
	}
	sort.Strings(names)
	return names, nil
}

// ApplyMigrations executes the Postgres migration files against the pool,
// one transaction per file.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, filesystem fs.FS) error {
	names, err := migrationFiles(filesystem, ".")
	if err != nil {
		return err
	}

	for _, name := range names {
		sqlBytes, err := fs.ReadFile(filesystem, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if len(bytes.TrimSpace(sqlBytes)) == 0 {
			continue
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, string(sqlBytes))
			return err
		})
		if err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}

	return nil
}
