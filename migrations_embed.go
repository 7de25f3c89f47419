package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/FranciscoRer293/pizzaria-ultimat/db"

	"github.com/jackc/pgx/v5"
)

// Embedded so `pizzaria migrate` works from any working directory.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationFiles lists the embedded .sql files. fs.ReadDir returns them
// sorted by name, which is the order they apply in.
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, path.Join("migrations", e.Name()))
		}
	}
	return names, nil
}

// applyMigrations runs each migration in its own transaction. They are
// written to be idempotent, so every start may run them again.
func applyMigrations(ctx context.Context, verbose bool) error {
	if db.Pool == nil {
		return fmt.Errorf("no database connection")
	}
	names, err := migrationFiles(migrationsFS)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for _, name := range names {
		body, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		err = pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, string(body))
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if verbose {
			log.Printf("migration %s applied", path.Base(name))
		}
	}
	return nil
}
