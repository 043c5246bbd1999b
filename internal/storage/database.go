package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB is the handle to the local study database. It is safe for use by a
// single process; statements are serialised over one connection.
type DB struct {
	conn     *sqlx.DB
	now      func() time.Time
	log      *slog.Logger
	validate *validator.Validate
}

// Option configures a DB.
type Option func(*DB)

// WithClock overrides the source of creation and completion instants.
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// WithLogger sets the logger used for write operations.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) { db.log = l }
}

// Open opens (creating if needed) the SQLite database at path and ensures the
// schema is up to date.
func Open(path string, opts ...Option) (*DB, error) {
	conn, err := sqlx.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection keeps every operation serial.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return newDB(conn, opts...), nil
}

func newDB(conn *sqlx.DB, opts ...Option) *DB {
	db := &DB{
		conn:     conn,
		now:      time.Now,
		log:      slog.Default(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// connParams are appended to every DSN. Timestamps are written as
// "2006-01-02 15:04:05.999999999-07:00" so SQLite date functions can read them.
const connParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

// dsn turns a file path, optionally carrying its own query, into a modernc DSN
// with the parameters every connection needs.
func dsn(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if strings.Contains(path, "?") {
		return path + "&" + connParams
	}
	return path + "?" + connParams
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// today is the current calendar date according to the DB clock.
func (db *DB) today() domain.Date {
	return domain.DateOf(db.now())
}

// withTx runs fn inside a transaction. The transaction is rolled back if fn
// returns an error, so no partial writes survive.
func (db *DB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) check(input any) error {
	if err := db.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
