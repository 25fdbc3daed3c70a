package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite     = "sqlite3"  // mattn/go-sqlite3, cgo
	DriverPureSQLite = "sqlite"   // modernc.org/sqlite, pure Go
	DriverPostgres   = "postgres" // lib/pq
)

const defaultFileName = "troupe_insights.db"

// Config selects the driver and location of the database.
type Config struct {
	Driver  string
	DataDir string
	// URL is a postgres connection string, or an explicit sqlite file path.
	URL string
}

// DB represents the database connection with pooling
type DB struct {
	*sql.DB
	driver   string
	pool     *ConnectionPool
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sql.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool creates a new database connection pool
func NewConnectionPool(db *sql.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"max_lifetime_seconds": cp.maxLifetime.Seconds(),
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

func dataSource(cfg Config) (string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		if cfg.URL == "" {
			return "", fmt.Errorf("postgres driver requires a connection URL")
		}
		return cfg.URL, nil
	case DriverSQLite, DriverPureSQLite:
		path := cfg.URL
		if path == "" {
			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return "", fmt.Errorf("failed to create data directory: %w", err)
			}
			path = filepath.Join(cfg.DataDir, defaultFileName)
		}
		if cfg.Driver == DriverSQLite {
			return path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000", nil
		}
		return path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewDB opens the database, applies migrations and prepares hot statements.
func NewDB(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var pool *ConnectionPool
	if cfg.Driver == DriverPostgres {
		pool = NewConnectionPool(db, 25, 5, 5*time.Minute)
	} else {
		// sqlite serialises writers; a small pool avoids busy errors under WAL
		pool = NewConnectionPool(db, 4, 2, 5*time.Minute)
	}

	database := &DB{
		DB:       db,
		driver:   cfg.Driver,
		pool:     pool,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.initPreparedStatements(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Database initialized",
		"driver", cfg.Driver,
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns)

	return database, nil
}

func (db *DB) Driver() string { return db.driver }

// Rebind rewrites '?' placeholders to '$n' for postgres. Queries in this
// package never contain a literal '?'.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) migrate(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.driver == DriverPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS admin_users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS activity_uploads (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			total_activities INTEGER NOT NULL,
			uploaded_at BIGINT NOT NULL,
			seq BIGINT NOT NULL UNIQUE -- insertion order, breaks uploaded_at ties
		)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			upload_id TEXT NOT NULL REFERENCES activity_uploads(id) ON DELETE CASCADE,
			row_index INTEGER NOT NULL, -- order within the upload file
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price TEXT NOT NULL,
			love_votes INTEGER NOT NULL DEFAULT 0,
			like_votes INTEGER NOT NULL DEFAULT 0,
			pass_votes INTEGER NOT NULL DEFAULT 0,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			website_link TEXT NOT NULL DEFAULT '',
			google_maps_url TEXT NOT NULL DEFAULT '',
			group_names TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS category_icon_mappings (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL UNIQUE,
			icon_name TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS app_config (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS broadcasts (
			id ` + serial + `,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			body_markdown TEXT NOT NULL,
			level TEXT NOT NULL DEFAULT 'info',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			version INTEGER NOT NULL DEFAULT 1,
			starts_at BIGINT,
			ends_at BIGINT,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_upload ON activities(upload_id, row_index)`,
				`CREATE INDEX IF NOT EXISTS idx_broadcasts_active ON broadcasts(active)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (db *DB) initPreparedStatements(ctx context.Context) error {
	statements := map[string]string{
		stmtLatestUpload: `SELECT id, file_name, description, total_activities, uploaded_at
			FROM activity_uploads ORDER BY uploaded_at DESC, seq DESC LIMIT 1`,

		stmtActivitiesByUpload: `SELECT ` + activityColumns + `
			FROM activities WHERE upload_id = ? ORDER BY row_index ASC`,

		stmtAdminByUsername: `SELECT id, username, password_hash, created_at, updated_at
			FROM admin_users WHERE username = ?`,

		stmtAdminByID: `SELECT id, username, password_hash, created_at, updated_at
			FROM admin_users WHERE id = ?`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.PrepareContext(ctx, db.Rebind(query))
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt

		slog.Debug("Prepared statement initialized", "name", name)
	}

	return nil
}

// GetPreparedStatement retrieves a prepared statement
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	stmt, exists := db.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return stmt, nil
}

// GetPoolStats returns database connection pool statistics
func (db *DB) GetPoolStats() map[string]interface{} {
	stats := db.pool.GetStats()
	stats["driver"] = db.driver
	return stats
}

// Close closes the database connection and prepared statements
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, stmt := range db.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}
	db.prepared = make(map[string]*sql.Stmt)

	return db.DB.Close()
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint on any supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	// modernc reports constraint failures as plain text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func timeFromNull(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}
