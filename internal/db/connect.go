package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:classledger.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/classledger?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS students (
  code TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exams (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  include_in_pass INTEGER NOT NULL DEFAULT 1,
  pass_threshold REAL,
  order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS exam_attempts (
  id TEXT PRIMARY KEY,
  exam_id TEXT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
  student_code TEXT NOT NULL,
  score_percentage REAL NOT NULL DEFAULT 0,
  final_score_percentage REAL,
  submitted_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attempts_student ON exam_attempts(student_code);

CREATE TABLE IF NOT EXISTS extra_fields (
  key TEXT PRIMARY KEY,
  label TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL,
  hidden INTEGER NOT NULL DEFAULT 0,
  include_in_pass INTEGER NOT NULL DEFAULT 0,
  pass_weight REAL NOT NULL DEFAULT 1,
  max_points REAL,
  bool_true_points REAL,
  bool_false_points REAL,
  text_score_map TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS extra_values (
  field_key TEXT NOT NULL REFERENCES extra_fields(key) ON DELETE CASCADE,
  student_code TEXT NOT NULL,
  value TEXT NOT NULL,          -- JSON-encoded raw value
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (field_key, student_code)
);

CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  calc_mode TEXT NOT NULL DEFAULT 'best',
  pass_threshold REAL NOT NULL DEFAULT 50,
  exam_weight REAL NOT NULL DEFAULT 1,
  score_source TEXT NOT NULL DEFAULT 'final',
  fail_on_any_exam INTEGER NOT NULL DEFAULT 0,
  message_pass TEXT NOT NULL DEFAULT '',
  message_fail TEXT NOT NULL DEFAULT '',
  message_hidden TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT UNIQUE NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS students (
  code TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS exams (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  include_in_pass BOOLEAN NOT NULL DEFAULT TRUE,
  pass_threshold DOUBLE PRECISION,
  order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS exam_attempts (
  id TEXT PRIMARY KEY,
  exam_id TEXT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
  student_code TEXT NOT NULL,
  score_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
  final_score_percentage DOUBLE PRECISION,
  submitted_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attempts_student ON exam_attempts(student_code);

CREATE TABLE IF NOT EXISTS extra_fields (
  key TEXT PRIMARY KEY,
  label TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL,
  hidden BOOLEAN NOT NULL DEFAULT FALSE,
  include_in_pass BOOLEAN NOT NULL DEFAULT FALSE,
  pass_weight DOUBLE PRECISION NOT NULL DEFAULT 1,
  max_points DOUBLE PRECISION,
  bool_true_points DOUBLE PRECISION,
  bool_false_points DOUBLE PRECISION,
  text_score_map TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS extra_values (
  field_key TEXT NOT NULL REFERENCES extra_fields(key) ON DELETE CASCADE,
  student_code TEXT NOT NULL,
  value TEXT NOT NULL,
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (field_key, student_code)
);

CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  calc_mode TEXT NOT NULL DEFAULT 'best',
  pass_threshold DOUBLE PRECISION NOT NULL DEFAULT 50,
  exam_weight DOUBLE PRECISION NOT NULL DEFAULT 1,
  score_source TEXT NOT NULL DEFAULT 'final',
  fail_on_any_exam BOOLEAN NOT NULL DEFAULT FALSE,
  message_pass TEXT NOT NULL DEFAULT '',
  message_fail TEXT NOT NULL DEFAULT '',
  message_hidden TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT UNIQUE NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
