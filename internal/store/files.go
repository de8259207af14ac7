package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drewhammond/folio-api/internal/generator"
)

// LocalFiles stores rendered artifacts on the local filesystem under a
// base directory, one subdirectory per request. Durable cloud storage is
// an external collaborator; this implementation serves local runs and
// tests.
type LocalFiles struct {
	baseDir string
}

// NewLocalFiles creates a file store rooted at baseDir.
func NewLocalFiles(baseDir string) *LocalFiles {
	return &LocalFiles{baseDir: baseDir}
}

// Save writes one artifact and returns its descriptor.
func (s *LocalFiles) Save(_ context.Context, requestID, filename string, data []byte) (*generator.FileArtifact, error) {
	dir := filepath.Join(s.baseDir, requestID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write artifact %s: %w", filename, err)
	}

	return &generator.FileArtifact{
		Name:         filename,
		Path:         path,
		SizeBytes:    int64(len(data)),
		StorageClass: "local",
	}, nil
}
