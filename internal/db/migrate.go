package db

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/abdulachik/litminer/internal/db/migrations"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Migration is one embedded schema file split into its Up and Down halves.
type Migration struct {
	Version string
	Up      string
	Down    string
}

// MigrationState reports whether a migration has been applied.
type MigrationState struct {
	Version   string
	AppliedAt string // empty when pending
}

// Pending reports whether the migration has not been applied yet.
func (m MigrationState) Pending() bool { return m.AppliedAt == "" }

// parseMigration splits a migration file on its markers. A file without a
// Down marker is all Up.
func parseMigration(version, content string) Migration {
	up, down, found := strings.Cut(content, downMarker)
	if !found {
		return Migration{Version: version, Up: strings.TrimSpace(content)}
	}
	return Migration{
		Version: version,
		Up:      strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(up), upMarker)),
		Down:    strings.TrimSpace(down),
	}
}

// Migrations returns the embedded migrations in version order.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(migrations.FS, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		out = append(out, parseMigration(entry.Name(), string(content)))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (s *Store) ensureMigrationsTable(ctx context.Context) error {
	_, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	return nil
}

// applied maps each applied version to its application time.
func (s *Store) applied(ctx context.Context) (map[string]string, error) {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}

	rows, err := s.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var version, at string
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		out[version] = at
	}
	return out, rows.Err()
}

// Migrate applies every pending migration, each in its own transaction.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.MigrateUp(ctx)
	return err
}

// MigrateUp applies every pending migration and returns the versions it
// applied.
func (s *Store) MigrateUp(ctx context.Context) ([]string, error) {
	all, err := Migrations()
	if err != nil {
		return nil, err
	}
	done, err := s.applied(ctx)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, m := range all {
		if _, ok := done[m.Version]; ok {
			continue
		}
		slog.Info("applying migration", "version", m.Version)

		err := s.inTx(ctx, m.Up, "INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			m.Version, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return ran, fmt.Errorf("apply %s: %w", m.Version, err)
		}
		ran = append(ran, m.Version)
	}

	slog.Debug("schema up to date", "applied", len(ran), "total", len(all))
	return ran, nil
}

// MigrateDown reverts the most recently applied migration and returns its
// version, or "" when nothing is applied.
func (s *Store) MigrateDown(ctx context.Context) (string, error) {
	all, err := Migrations()
	if err != nil {
		return "", err
	}
	done, err := s.applied(ctx)
	if err != nil {
		return "", err
	}

	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if _, ok := done[m.Version]; !ok {
			continue
		}
		if m.Down == "" {
			return "", fmt.Errorf("revert %s: no down section", m.Version)
		}

		slog.Info("reverting migration", "version", m.Version)
		if err := s.inTx(ctx, m.Down, "DELETE FROM schema_migrations WHERE version = ?", m.Version); err != nil {
			return "", fmt.Errorf("revert %s: %w", m.Version, err)
		}
		return m.Version, nil
	}
	return "", nil
}

// MigrationStatus lists every embedded migration with its applied time.
func (s *Store) MigrationStatus(ctx context.Context) ([]MigrationState, error) {
	all, err := Migrations()
	if err != nil {
		return nil, err
	}
	done, err := s.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MigrationState, 0, len(all))
	for _, m := range all {
		out = append(out, MigrationState{Version: m.Version, AppliedAt: done[m.Version]})
	}
	return out, nil
}

// inTx runs a schema script and its bookkeeping statement atomically.
func (s *Store) inTx(ctx context.Context, script, record string, args ...any) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}
