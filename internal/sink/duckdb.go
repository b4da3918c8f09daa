package sink

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"streamlab/internal/domain"
)

const duckdbSchema = `
	CREATE TABLE IF NOT EXISTS messages (
		author            VARCHAR,
		message           VARCHAR,
		timestamp         VARCHAR,
		category          VARCHAR,
		sentiment         DOUBLE,
		keyword_mentioned VARCHAR,
		message_length    INTEGER
	)
`

// DuckDB appends messages to an embedded columnar store. Same row shape as
// the SQLite sink; the engine is chosen for later bulk scans, not lookups.
// Single writer: DuckDB holds an exclusive lock on the database file.
type DuckDB struct {
	path string
	db   *sql.DB
}

func NewDuckDB(path string) (*DuckDB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(duckdbSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &DuckDB{path: path, db: db}, nil
}

func (s *DuckDB) Emit(ctx context.Context, msg domain.Message) error {
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

func (s *DuckDB) Name() string { return "duckdb:" + s.path }

func (s *DuckDB) Close() error { return s.db.Close() }
