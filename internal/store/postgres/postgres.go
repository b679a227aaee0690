// Package postgres opens a RemoteStore on PostgreSQL through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/store/sqlstore"
)

// Dialect is the PostgreSQL schema.
var Dialect = sqlstore.Dialect{
	Name:     "postgres",
	Numbered: true,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id            TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			allergies          JSONB NOT NULL DEFAULT '[]',
			dietary_preference TEXT NOT NULL,
			deficiencies       JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS saved_recipes (
			seq       BIGSERIAL PRIMARY KEY,
			user_id   TEXT NOT NULL,
			recipe_id TEXT NOT NULL,
			payload   JSONB NOT NULL,
			UNIQUE (user_id, recipe_id)
		)`,
		`CREATE TABLE IF NOT EXISTS shopping_items (
			seq         BIGSERIAL PRIMARY KEY,
			id          UUID NOT NULL UNIQUE,
			user_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			quantity    TEXT NOT NULL DEFAULT '',
			checked     BOOLEAN NOT NULL DEFAULT FALSE,
			recipe_name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS shopping_items_user ON shopping_items (user_id, seq)`,
	},
}

// Open connects to dsn, verifies the connection and applies the schema.
func Open(ctx context.Context, dsn string, log *logger.Logger) (*sqlstore.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s, err := sqlstore.New(ctx, db, Dialect, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("postgres: connected")
	return s, nil
}
