package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"streamlab/internal/domain"
	"streamlab/internal/sink"
)

func appendLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	for _, line := range lines {
		_, err := f.WriteString(line + "\n")
		require.NoError(t, err)
	}
}

func TestFilePollSkipsBlankAndCountsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.jsonl")
	appendLines(t, path,
		`{"author":"A","message":"hi","timestamp":"t1"}`,
		`{"author":"B","message":"yo","timestamp":"t2"}`,
		``,
	)

	src := NewFile(path, zap.NewNop().Sugar())
	msgs, err := src.Poll(context.Background())
	require.NoError(t, err)

	// Two messages out of three lines: the cursor tracks lines consumed,
	// not messages parsed.
	require.Len(t, msgs, 2)
	assert.Equal(t, "A", msgs[0].Author)
	assert.Equal(t, "B", msgs[1].Author)
	assert.Equal(t, 3, src.Cursor())
}

func TestFilePollIsIdempotentWithoutNewLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.jsonl")
	appendLines(t, path, `{"author":"A","message":"hi","timestamp":"t1"}`)

	src := NewFile(path, zap.NewNop().Sugar())

	msgs, err := src.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	cursor := src.Cursor()

	msgs, err = src.Poll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, cursor, src.Cursor())
}

func TestFileCursorAdvancesByLinesAppended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.jsonl")
	appendLines(t, path, `{"message":"one"}`)

	src := NewFile(path, zap.NewNop().Sugar())
	_, err := src.Poll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, src.Cursor())

	// Three more lines, one of them malformed: cursor still advances by 3.
	appendLines(t, path,
		`{"message":"two"}`,
		`{not json`,
		`{"message":"three"}`,
	)

	msgs, err := src.Poll(context.Background())
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
	assert.Equal(t, 4, src.Cursor())
}

func TestFilePollMissingFile(t *testing.T) {
	src := NewFile(filepath.Join(t.TempDir(), "absent.jsonl"), zap.NewNop().Sugar())

	msgs, err := src.Poll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Zero(t, src.Cursor())
}

func TestFilePollOnlyReturnsNewMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.jsonl")
	appendLines(t, path, `{"message":"one"}`)

	src := NewFile(path, zap.NewNop().Sugar())
	_, err := src.Poll(context.Background())
	require.NoError(t, err)

	appendLines(t, path, `{"message":"two"}`)

	msgs, err := src.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "two", msgs[0].Text)
}

// A message written by the file sink and read back by the file source must
// be field-for-field equal.
func TestFileSinkSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.jsonl")

	fileSink, err := sink.NewFile(path)
	require.NoError(t, err)
	defer fileSink.Close()

	orig := domain.Generator{Author: "tester"}.Generate(5)
	require.NoError(t, fileSink.Emit(context.Background(), orig))

	src := NewFile(path, zap.NewNop().Sugar())
	msgs, err := src.Poll(context.Background())
	require.NoError(t, err)

	require.Len(t, msgs, 1)
	assert.Equal(t, orig, msgs[0])
}

func TestFilePollHandlesLinesLongerThanScannerDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.jsonl")

	// One message well past 64KB, then a normal one. Both must come back
	// and the cursor must cover both lines.
	long := `{"author":"A","message":"` + strings.Repeat("a", 70*1024) + `","timestamp":"t1"}`
	appendLines(t, path, long, `{"author":"B","message":"yo","timestamp":"t2"}`)

	src := NewFile(path, zap.NewNop().Sugar())
	msgs, err := src.Poll(context.Background())
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, 70*1024, len(msgs[0].Text))
	assert.Equal(t, "B", msgs[1].Author)
	assert.Equal(t, 2, src.Cursor())

	// And the source is not wedged: the next poll moves on cleanly.
	msgs, err = src.Poll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, 2, src.Cursor())
}

func TestFilePollSkipsTrailingPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.jsonl")
	appendLines(t, path, `{"message":"whole"}`)

	// Simulate a producer killed mid-write: no trailing newline, half a
	// JSON object.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"message":"par`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	src := NewFile(path, zap.NewNop().Sugar())
	msgs, err := src.Poll(context.Background())
	require.NoError(t, err)

	require.Len(t, msgs, 1)
	assert.Equal(t, "whole", msgs[0].Text)
	assert.Equal(t, 2, src.Cursor())
}
