package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

func (s *PostgresStore) ensureMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

func (s *PostgresStore) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	err := s.conn.QueryRowContext(ctx, query, version).Scan(&exists)

	return exists, err
}

func upMigrations() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	return upFiles, nil
}

// Migrate applies every embedded up migration not yet recorded in
// schema_migrations, each in its own transaction. It returns the number of
// migrations applied.
func (s *PostgresStore) Migrate(ctx context.Context, logger *zap.Logger) (int, error) {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}

	files, err := upMigrations()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, file := range files {
		version := strings.SplitN(file, "_", 2)[0]

		done, err := s.isMigrationApplied(ctx, version)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if done {
			logger.Debug("Skipping migration", zap.String("file", file))

			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + file)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		tx, err := s.conn.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("failed to begin transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			tx.Rollback()

			return applied, fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			tx.Rollback()

			return applied, fmt.Errorf("failed to record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("failed to commit migration %s: %w", file, err)
		}

		logger.Info("Applied migration", zap.String("file", file))
		applied++
	}

	return applied, nil
}
