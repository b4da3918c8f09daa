package sink

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"streamlab/internal/domain"
)

// File appends messages to a JSONL file, one object per line. Each write is
// synced before Emit returns so the line survives a crash of this process.
type File struct {
	path string
	f    *os.File
}

func NewFile(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &File{path: path, f: f}, nil
}

func (s *File) Emit(_ context.Context, msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if _, err := s.f.Write(append(data, '\n')); err != nil {
		return err
	}
	return s.f.Sync()
}

func (s *File) Name() string { return "file:" + s.path }

func (s *File) Close() error { return s.f.Close() }
