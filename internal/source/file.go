package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"streamlab/internal/domain"
)

// File tails a JSONL file. The cursor counts lines consumed, parsed or not:
// a malformed or blank line is skipped with a log entry but still advances
// the cursor, so it is never retried. A trailing partial line (producer
// killed mid-write) falls out as malformed and is absorbed the same way.
type File struct {
	path   string
	cursor int
	log    *zap.SugaredLogger
}

func NewFile(path string, log *zap.SugaredLogger) *File {
	return &File{path: path, log: log}
}

// Poll returns every message appended since the previous poll. A missing
// file is not an error: the producer may simply not have started yet.
func (s *File) Poll(_ context.Context) ([]domain.Message, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ReadError{Source: s.Name(), Err: err}
	}
	defer f.Close()

	var out []domain.Message
	line := 0

	// ReadString rather than a Scanner: lines have no length bound and a
	// long one must be consumed, not turn into a permanent read error.
	reader := bufio.NewReader(f)
	for {
		raw, rerr := reader.ReadString('\n')
		if raw != "" {
			line++
			if line > s.cursor {
				if msg, ok := s.parseLine(raw, line); ok {
					out = append(out, msg)
				}
			}
		}
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				// Keep whatever parsed before the failure; the cursor
				// covers exactly the lines consumed.
				s.log.Warnw("read interrupted", "source", s.Name(), "line", line, "error", rerr)
			}
			break
		}
	}

	s.cursor = line
	return out, nil
}

func (s *File) parseLine(raw string, line int) (domain.Message, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return domain.Message{}, false
	}

	var msg domain.Message
	if err := json.Unmarshal([]byte(text), &msg); err != nil {
		s.log.Warnw("skipping unparseable line", "source", s.Name(), "line", line, "error", err)
		return domain.Message{}, false
	}
	return msg, true
}

// Cursor reports how many lines of the file have been consumed.
func (s *File) Cursor() int { return s.cursor }

func (s *File) Name() string { return "file:" + s.path }

func (s *File) Close() error { return nil }
