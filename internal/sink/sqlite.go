package sink

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"streamlab/internal/domain"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS messages (
		author            TEXT,
		message           TEXT,
		timestamp         TEXT,
		category          TEXT,
		sentiment         REAL,
		keyword_mentioned TEXT,
		message_length    INTEGER
	)
`

// SQLite appends messages as rows of a single table in a file-backed
// database. SQLite serializes concurrent writers itself, so the producer is
// safe to run alongside ad hoc readers of the same file.
type SQLite struct {
	path string
	db   *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{path: path, db: db}, nil
}

func (s *SQLite) Emit(ctx context.Context, msg domain.Message) error {
	query := `
		INSERT INTO messages (author, message, timestamp, category, sentiment, keyword_mentioned, message_length)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		msg.Author,
		msg.Text,
		msg.Timestamp,
		msg.Category,
		msg.Sentiment,
		msg.Keyword,
		msg.Length,
	)

	return err
}

func (s *SQLite) Name() string { return "sqlite:" + s.path }

func (s *SQLite) Close() error { return s.db.Close() }
