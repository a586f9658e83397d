package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS lets concurrent callbacks wait for the write lock instead of failing
const busyTimeoutMS = 5000

// DSN turns a database path into a go-sqlite3 data source with foreign keys, WAL and a
// busy timeout enabled. Parameters already present in path are kept.
func DSN(path string) string {
	base, rawQuery, _ := strings.Cut(path, "?")
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		params = url.Values{}
	}
	setDefault := func(key, value string) {
		if params.Get(key) == "" {
			params.Set(key, value)
		}
	}
	setDefault("_foreign_keys", "on")
	setDefault("_busy_timeout", fmt.Sprint(busyTimeoutMS))
	if base != ":memory:" && !strings.Contains(path, "mode=memory") {
		setDefault("_journal_mode", "WAL")
	}

	if !strings.HasPrefix(base, "file:") {
		base = "file:" + base
	}
	return base + "?" + params.Encode()
}

// Open connects to the SQLite database at path and applies pending migrations
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers; users and login attempts are written per callback
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.InfoContext(ctx, "database ready", "path", path)
	return db, nil
}
