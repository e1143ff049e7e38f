package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"quiz-board/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	createVersionTable = `CREATE TABLE schema_migrations (version NUMBER(19) NOT NULL PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`
	// ORA-00955: name is already used by an existing object
	oraNameInUse = "ORA-00955"
)

// Migrator applies the embedded up migrations in version order and records
// each applied version in schema_migrations. Every file holds one statement.
type Migrator struct {
	db     *sqlx.DB
	source source.Driver
}

func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}
	return &Migrator{db: db, source: src}, nil
}

func (m *Migrator) Close() error {
	return m.source.Close()
}

// Up applies every migration not yet recorded and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	var done []uint64
	if err := m.db.SelectContext(ctx, &done, `SELECT version FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("could not read applied migrations: %w", err)
	}
	applied := make(map[uint]bool, len(done))
	for _, v := range done {
		applied[uint(v)] = true
	}

	count := 0
	version, err := m.source.First()
	for err == nil {
		if !applied[version] {
			if err := m.apply(ctx, version); err != nil {
				return count, err
			}
			count++
		}
		version, err = m.source.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return count, fmt.Errorf("could not list migrations: %w", err)
	}

	logger.Get().Info("Migrations completed successfully", zap.Int("applied", count))
	return count, nil
}

func (m *Migrator) apply(ctx context.Context, version uint) error {
	r, identifier, err := m.source.ReadUp(version)
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}

	stmt := strings.TrimSuffix(strings.TrimSpace(string(body)), ";")
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
	}
	if _, err := m.db.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`,
		uint64(version), time.Now().UTC()); err != nil {
		return fmt.Errorf("could not record migration %d: %w", version, err)
	}

	logger.Get().Info("Executed migration", zap.Uint("version", version), zap.String("name", identifier))
	return nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, createVersionTable)
	if err != nil && !strings.Contains(err.Error(), oraNameInUse) {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}
