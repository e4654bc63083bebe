package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	defaultMaxOpenConns    = 5
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute
	sqliteBusyTimeoutMs    = 5000
)

// Dialect selects SQL syntax differences between the supported backends.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

func (d Dialect) String() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

// Placeholder returns the bind marker for the n-th (1-based) query argument.
func (d Dialect) Placeholder(n int) string {
	if d == DialectSQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Open connects to the database named by databaseURL and pings it.
//
//	postgres://... or postgresql://...   PostgreSQL via lib/pq
//	sqlite://<path>, file:<uri>, :memory: SQLite via modernc.org/sqlite
func Open(databaseURL string) (*sql.DB, Dialect, error) {
	driver, dsn, dialect, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, 0, err
	}
	if dialect == DialectSQLite && !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, 0, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open database connection: %w", err)
	}

	if dialect == DialectSQLite {
		// One connection keeps writes serialised and an in-memory database alive.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetMaxIdleConns(defaultMaxIdleConns)
		db.SetConnMaxLifetime(defaultConnMaxLifetime)
		db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("failed to ping database: %w", err)
	}

	if dialect == DialectSQLite {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", sqliteBusyTimeoutMs)); err != nil {
			db.Close()
			return nil, 0, fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}

	return db, dialect, nil
}

func parseDatabaseURL(databaseURL string) (driver, dsn string, dialect Dialect, err error) {
	raw := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return "postgres", raw, DialectPostgres, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", 0, fmt.Errorf("sqlite database url %q has no path", databaseURL)
		}
		return "sqlite", path, DialectSQLite, nil
	case strings.HasPrefix(raw, "file:"), raw == ":memory:":
		return "sqlite", raw, DialectSQLite, nil
	default:
		return "", "", 0, fmt.Errorf("unsupported database url %q", databaseURL)
	}
}
