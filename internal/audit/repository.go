package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// Drivers selectable through AUDIT_DRIVER.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_logs (
	id          TEXT PRIMARY KEY,
	operation   TEXT NOT NULL,
	method      TEXT NOT NULL,
	path        TEXT NOT NULL,
	status      INTEGER NOT NULL,
	actor       TEXT NOT NULL DEFAULT '',
	ip          TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT '',
	duration_ms BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL
)`

// Open connects to the audit database and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("audit: unsupported driver %q", driver)
	}
	if dsn == "" {
		return nil, errors.New("audit: empty dsn")
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: open: %w", err)
	}
	if driver == DriverSQLite {
		// sqlite serializes writers; one connection also keeps :memory: databases shared.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: ping: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the audit table when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return errors.New("audit repo: nil db")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("audit: migrate: %w", err)
	}
	return nil
}

// Repository writes audit logs.
type Repository struct {
	db *sqlx.DB
}

// NewRepository constructs an audit repository.
func NewRepository(db *sqlx.DB) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db}
}

// Log writes an audit entry.
func (r *Repository) Log(ctx context.Context, entry Entry) error {
	if r == nil || r.db == nil {
		return errors.New("audit repo: nil db")
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO audit_logs (
	id, operation, method, path, status, actor, ip, user_agent, request_id, duration_ms, created_at
) VALUES (
	?,?,?,?,?,?,?,?,?,?,?
)`), entry.ID, entry.Operation, entry.Method, entry.Path, entry.Status, entry.Actor, entry.IP, entry.UserAgent,
		entry.RequestID, entry.DurationMS, entry.CreatedAt)
	return err
}

// Recent returns the newest entries first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("audit repo: nil db")
	}
	if limit <= 0 {
		limit = 50
	}
	var entries []Entry
	err := r.db.SelectContext(ctx, &entries, r.db.Rebind(`
SELECT id, operation, method, path, status, actor, ip, user_agent, request_id, duration_ms, created_at
FROM audit_logs
ORDER BY created_at DESC, id DESC
LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
