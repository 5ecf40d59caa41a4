package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Sink stores a rendered artifact under a file name.
type Sink interface {
	Name() string
	Put(ctx context.Context, fileName, contentType string, data []byte) error
}

// DirSink writes artifacts into a local directory, replacing them atomically.
type DirSink struct {
	dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

func (s *DirSink) Name() string { return "dir:" + s.dir }

// Path returns where fileName is stored.
func (s *DirSink) Path(fileName string) string {
	return filepath.Join(s.dir, fileName)
}

func (s *DirSink) Put(_ context.Context, fileName, _ string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", fileName, err)
	}

	return os.Rename(tmp.Name(), s.Path(fileName))
}
