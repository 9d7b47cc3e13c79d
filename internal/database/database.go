package database

import (
	"context"
	"fmt"
	"time"

	"github.com/alexivanou/geosuggest-api/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DriverName returns the database/sql driver registered for the DB type
func DriverName(dbType config.DBType) string {
	if dbType == config.DBTypePostgreSQL {
		return "pgx"
	}
	return "sqlite3"
}

// Connect creates a database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName(cfg.Type), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Type, err)
	}

	if cfg.IsMemory() {
		// A shared-cache memory database lives only while a connection is open
		db.SetMaxIdleConns(2)
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
		return db, nil
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
