package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// VersionTable records the schema version tern has applied.
const VersionTable = "public.schema_version"

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the embedded migration files. Each file holds the up SQL, then
// tern's "---- create above / drop below ----" marker, then the down SQL.
func Schema() fs.FS {
	sub, err := fs.Sub(schemaFS, "schema")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewMigrator loads the migrations in fsys for conn. A nil conn only loads and
// parses them, which is enough to inspect the migration list.
func NewMigrator(ctx context.Context, conn *pgx.Conn, fsys fs.FS, logger zerolog.Logger) (*migrate.Migrator, error) {
	m, err := migrate.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", VersionTable, err)
	}
	if err := m.LoadMigrations(fsys); err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	m.OnStart = func(sequence int32, name, direction, _ string) {
		logger.Info().Int32("version", sequence).Str("name", name).Str("direction", direction).Msg("running migration")
	}
	return m, nil
}

// Migrate brings the schema to the latest embedded version and returns the
// names of the migrations it applied.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) ([]string, error) {
	return MigrateTo(ctx, pool, -1, logger)
}

// MigrateTo moves the schema up or down to version; a negative version means
// the latest. It returns the names of the migrations run, in order.
func MigrateTo(ctx context.Context, pool *pgxpool.Pool, version int32, logger zerolog.Logger) ([]string, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	m, err := NewMigrator(ctx, conn.Conn(), Schema(), logger)
	if err != nil {
		return nil, err
	}

	current, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if version < 0 {
		version = int32(len(m.Migrations))
	}

	var ran []string
	onStart := m.OnStart
	m.OnStart = func(sequence int32, name, direction, sql string) {
		onStart(sequence, name, direction, sql)
		ran = append(ran, name)
	}

	if err := m.MigrateTo(ctx, version); err != nil {
		return ran, fmt.Errorf("migrate from %d to %d: %w", current, version, err)
	}
	if len(ran) == 0 {
		logger.Info().Int32("version", current).Msg("schema up to date")
	}
	return ran, nil
}
