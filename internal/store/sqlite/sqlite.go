// Package sqlite opens a file-backed RemoteStore on the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/store/sqlstore"
)

// Dialect is the SQLite schema.
var Dialect = sqlstore.Dialect{
	Name: "sqlite",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id            TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			allergies          TEXT NOT NULL DEFAULT '[]',
			dietary_preference TEXT NOT NULL,
			deficiencies       TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS saved_recipes (
			seq       INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id   TEXT NOT NULL,
			recipe_id TEXT NOT NULL,
			payload   TEXT NOT NULL,
			UNIQUE (user_id, recipe_id)
		)`,
		`CREATE TABLE IF NOT EXISTS shopping_items (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			user_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			quantity    TEXT NOT NULL DEFAULT '',
			checked     INTEGER NOT NULL DEFAULT 0,
			recipe_name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS shopping_items_user ON shopping_items (user_id, seq)`,
	},
}

var pragmas = []string{
	`PRAGMA journal_mode = WAL`,
	`PRAGMA busy_timeout = 5000`,
	`PRAGMA foreign_keys = ON`,
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, log *logger.Logger) (*sqlstore.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One connection keeps pragmas and writes serialised.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}

	s, err := sqlstore.New(ctx, db, Dialect, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("sqlite: opened %s", path)
	return s, nil
}
