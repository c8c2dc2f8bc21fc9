package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ItsNotGoodName/portfolio-os/internal/core"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = core.ErrNotFound
	ErrInvalid  = errors.New("invalid input")
)

const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
)

// singletonID keys the likes, settings and stats rows.
const singletonID = 1

type Option func(*Store)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open opens the database at path with the sqlite (pure Go) or sqlite3 (cgo) driver.
// Path ":memory:" opens a private in-memory database.
func Open(driver, path string, opts ...Option) (*Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}

	dsn, err := dataSourceName(driver, path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer, a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		driver: driver,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func dataSourceName(driver, path string) (string, error) {
	memory := path == ":memory:" || path == ""
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch driver {
	case DriverSQLite:
		if memory {
			return ":memory:", nil
		}
		return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	case DriverSQLite3:
		if memory {
			return ":memory:", nil
		}
		return path + "?_journal_mode=WAL&_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) timestamp() int64 {
	return s.now().UnixMilli()
}

// Migrate creates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS likes (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT,
	message TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_messages_created_at ON feedback_messages(created_at);

CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]',
	demo_link TEXT,
	image_url TEXT,
	display_order INTEGER NOT NULL DEFAULT 0 CHECK (display_order >= 0),
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_active_order ON projects(is_active, display_order);

CREATE TABLE IF NOT EXISTS contact_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	is_read INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contact_messages_created_at ON contact_messages(created_at);

CREATE TABLE IF NOT EXISTS portfolio_settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	sound_enabled INTEGER NOT NULL DEFAULT 1,
	theme TEXT NOT NULL DEFAULT 'classic' CHECK (theme IN ('classic', 'dark', 'retro')),
	animation_speed TEXT NOT NULL DEFAULT 'normal' CHECK (animation_speed IN ('slow', 'normal', 'fast')),
	show_visitor_count INTEGER NOT NULL DEFAULT 1,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS portfolio_stats (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	years_experience INTEGER NOT NULL DEFAULT 0 CHECK (years_experience >= 0),
	visitor_count INTEGER NOT NULL DEFAULT 0 CHECK (visitor_count >= 0),
	updated_at INTEGER NOT NULL
);
`

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, field)
	}
	return nil
}

// optionalURL accepts nil, a blank string or an absolute URL.
func optionalURL(field string, value *string) error {
	if core.BlankToNull(value) == nil {
		return nil
	}
	u, err := url.Parse(*value)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return fmt.Errorf("%w: %s must be an absolute url", ErrInvalid, field)
	}
	return nil
}
