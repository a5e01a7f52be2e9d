package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type localStorage struct {
	baseDir string
	now     func() time.Time
}

// NewLocalStorage writes results under baseDir/<YYYY-MM-DD>/<HH>/.
func NewLocalStorage(baseDir string) ResultStore {
	return &localStorage{baseDir: baseDir, now: time.Now}
}

func (s *localStorage) Put(ctx context.Context, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := newPartition(s.now())
	dir := filepath.Join(s.baseDir, p.Date, p.Hour)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, p.Stamp+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (s *localStorage) Backend() string {
	return "local"
}
