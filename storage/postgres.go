// Postgres connection management for the geo dataset.
//
// Information Hiding:
// - Pool sizing and DSN construction encapsulated
// - Migration mechanics hidden behind OpenPostgres

package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Pool bounds match the reference deployment: at least one warm connection,
// at most twenty concurrent ones.
const (
	poolMinConns = 1
	poolMaxConns = 20
)

// PostgresConfig holds connection details for the geo dataset.
type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string

	// SkipMigrations leaves the schema untouched on startup.
	SkipMigrations bool
}

// DSN builds the connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// OpenPostgres opens a bounded connection pool to the geo dataset and runs
// schema migrations. The returned *sql.DB is safe for concurrent use; each
// query checks a connection out of the pool and returns it when done.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*sql.DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.MinConns = poolMinConns
	poolCfg.MaxConns = poolMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	db := sql.OpenDB(stdlib.GetPoolConnector(pool))

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if !cfg.SkipMigrations {
		if err := runMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
