// Package storage provides database access and migration management.
package storage

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrator wraps bun's migration engine.
type Migrator struct {
	db         *bun.DB
	migrations *migrate.Migrations
	migrator   *migrate.Migrator
}

// NewMigrator creates a new Migrator that discovers SQL migrations from the
// given filesystem (normally an embed.FS baked into the migrations package).
func NewMigrator(db *bun.DB, migrationsFS fs.FS) (*Migrator, error) {
	migrations := migrate.NewMigrations()
	if err := migrations.Discover(migrationsFS); err != nil {
		return nil, fmt.Errorf("failed to discover migrations: %w", err)
	}

	m := migrate.NewMigrator(db, migrations)

	return &Migrator{
		db:         db,
		migrations: migrations,
		migrator:   m,
	}, nil
}

// Init creates the migration tracking tables.
func (m *Migrator) Init(ctx context.Context) error {
	return m.migrator.Init(ctx)
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer m.migrator.Unlock(ctx) //nolint:errcheck

	group, err := m.migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if group.IsZero() {
		return nil
	}

	return nil
}

// Down rolls back the last migration group.
func (m *Migrator) Down(ctx context.Context) error {
	if err := m.migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer m.migrator.Unlock(ctx) //nolint:errcheck

	_, err := m.migrator.Rollback(ctx)
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	return nil
}

// Status reports applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) (migrate.MigrationSlice, error) {
	ms, err := m.migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	return ms, nil
}

// Reset rolls back every applied migration group, then re-applies them all.
func (m *Migrator) Reset(ctx context.Context) error {
	if err := m.migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer m.migrator.Unlock(ctx) //nolint:errcheck

	for {
		group, err := m.migrator.Rollback(ctx)
		if err != nil {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		if group.IsZero() {
			break
		}
	}

	if _, err := m.migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to re-apply migrations: %w", err)
	}

	return nil
}

// CreateMigrationTable ensures the migration tracking tables exist.
func (m *Migrator) CreateMigrationTable(ctx context.Context) error {
	return m.Init(ctx)
}
