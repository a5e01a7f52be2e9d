package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-pose-estimator/internal/logger"
	"go-pose-estimator/internal/storage"

	"github.com/sirupsen/logrus"
)

// ModelRepository resolves a model name to a local artifact path
type ModelRepository interface {
	// Resolve returns the path of <name>.onnx, downloading it from artifactURL when absent
	Resolve(ctx context.Context, name, artifactURL string) (string, error)
}

// FileModelRepository keeps artifacts in a directory on disk
type FileModelRepository struct {
	dir     string
	fetcher storage.ArtifactFetcher
}

// NewFileModelRepository creates a repository rooted at dir
func NewFileModelRepository(dir string, fetcher storage.ArtifactFetcher) *FileModelRepository {
	return &FileModelRepository{dir: dir, fetcher: fetcher}
}

// Resolve looks for dir/<name>.onnx first. A download goes to a temporary
// file that is renamed into place only once complete.
func (r *FileModelRepository) Resolve(ctx context.Context, name, artifactURL string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidArtifactName, name)
	}
	path := filepath.Join(r.dir, name+".onnx")

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, nil
	} else if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if artifactURL == "" {
		return "", fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}
	tmp, err := os.CreateTemp(r.dir, name+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	logger.WithFields(logrus.Fields{
		"model": name,
		"url":   artifactURL,
	}).Info("Downloading model artifact")

	n, err := r.fetcher.Fetch(ctx, artifactURL, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("download %s: %w", artifactURL, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("install artifact: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"model": name,
		"path":  path,
		"bytes": n,
	}).Info("Model artifact installed")
	return path, nil
}
