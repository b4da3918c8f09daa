package sink

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamlab/internal/domain"
)

func TestSQLiteCreatesTableAndInsertsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.sqlite")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	gen := domain.Generator{Author: "tester"}
	require.NoError(t, s.Emit(context.Background(), gen.Generate(1)))
	require.NoError(t, s.Emit(context.Background(), gen.Generate(2)))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count))
	assert.Equal(t, 2, count)

	var author, text string
	var sentiment float64
	var length int
	require.NoError(t, db.QueryRow(
		`SELECT author, message, sentiment, message_length FROM messages ORDER BY rowid LIMIT 1`,
	).Scan(&author, &text, &sentiment, &length))

	assert.Equal(t, "tester", author)
	assert.Contains(t, text, "#1")
	assert.InDelta(t, 0.8, sentiment, 1e-9)
	assert.Equal(t, len(text), length)
}

func TestSQLiteReopenKeepsExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.sqlite")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Emit(context.Background(), domain.Message{Text: "hi"}))
	require.NoError(t, s.Close())

	// Second open must not recreate the table.
	s2, err := NewSQLite(path)
	require.NoError(t, err)
	defer s2.Close()
	require.NoError(t, s2.Emit(context.Background(), domain.Message{Text: "yo"}))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count))
	assert.Equal(t, 2, count)
}
