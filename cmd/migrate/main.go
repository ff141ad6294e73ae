package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aurasat/backend/internal/config"
	"github.com/aurasat/backend/internal/logging"
	"github.com/aurasat/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	flag "github.com/spf13/pflag"
)

const usageText = `Usage: migrate [--dir DIR] [command]

Commands:
  up (default)  apply pending migrations
  down          roll back the most recent migration
  reset         drop every table, then apply all migrations in order
`

func main() {
	dir := flag.String("dir", "", "migrations directory (default: ./migrations or ../migrations)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		logging.Fatal("config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	if strings.HasPrefix(cfg.DatabaseURL, repository.SQLiteScheme) {
		logging.Fatal("migrate only targets Postgres; the sqlite store creates its schema on open")
	}

	migrationDir := *dir
	if migrationDir == "" {
		migrationDir = findMigrationDir()
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	switch cmd := flag.Arg(0); cmd {
	case "", "up":
		err = runIncremental(ctx, pool, migrationDir)
	case "down":
		err = runDown(ctx, pool, migrationDir)
	case "reset":
		if err = runDropAll(ctx, pool, migrationDir); err == nil {
			err = runIncremental(ctx, pool, migrationDir)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		pool.Close()
		logging.Fatal("migrate failed", "error", err)
	}
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// collectFiles returns the names of files in dir ending in suffix, sorted.
func collectFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// pending returns the up files whose migration name is not in applied.
func pending(upFiles []string, applied map[string]bool) []string {
	var out []string
	for _, f := range upFiles {
		if !applied[strings.TrimSuffix(f, ".up.sql")] {
			out = append(out, f)
		}
	}
	return out
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

func appliedMigrations(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func runIncremental(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	upFiles, err := collectFiles(dir, ".up.sql")
	if err != nil {
		return err
	}
	applied, err := appliedMigrations(ctx, pool)
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}

	todo := pending(upFiles, applied)
	for _, filename := range todo {
		name := strings.TrimSuffix(filename, ".up.sql")
		sql, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			return fmt.Errorf("read %s: %w", filename, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
		slog.Info("migration completed", "migration", name)
	}

	if len(todo) == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", len(todo))
	}
	return nil
}

func runDown(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	var name string
	err := pool.QueryRow(ctx, "SELECT name FROM schema_migrations ORDER BY name DESC LIMIT 1").Scan(&name)
	if err != nil {
		slog.Info("nothing to roll back")
		return nil
	}

	sql, err := os.ReadFile(filepath.Join(dir, name+".down.sql"))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("migration %s has no down file", name)
	}
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("roll back %s: %w", name, err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM schema_migrations WHERE name = $1", name); err != nil {
		return fmt.Errorf("unrecord %s: %w", name, err)
	}
	slog.Info("migration rolled back", "migration", name)
	return nil
}

func runDropAll(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	slog.Info("dropping all tables")
	sql, err := os.ReadFile(filepath.Join(dir, "000_drop_all.sql"))
	if err != nil {
		return fmt.Errorf("read 000_drop_all.sql: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("drop all: %w", err)
	}
	slog.Info("all tables dropped")
	return nil
}
