package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ashmelev/cardvault/internal/config"
	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/natefinch/atomic"
)

// fileBlobStorage is the filesystem implementation of [BlobStorage]. It
// persists each blob as one file under the configured vault directory.
//
// Writes go through an atomic rename so the self-heal and credential-change
// paths can overwrite an envelope in place without ever exposing a
// half-written file: either the old bytes or the new bytes, never a mix.
type fileBlobStorage struct {
	dir    string
	logger *logger.Logger
}

// NewFileBlobStorage constructs a [BlobStorage] rooted at cfg.VaultDir,
// creating the directory if needed.
func NewFileBlobStorage(cfg config.Files, logger *logger.Logger) (BlobStorage, error) {
	if cfg.VaultDir == "" {
		return nil, errors.New("vault directory is not configured")
	}

	if err := os.MkdirAll(cfg.VaultDir, 0o700); err != nil {
		return nil, fmt.Errorf("create vault directory: %w", err)
	}

	logger.Debug().Str("dir", cfg.VaultDir).Msg("creating file blob storage")
	return &fileBlobStorage{
		dir:    cfg.VaultDir,
		logger: logger,
	}, nil
}

// Read returns the stored bytes, or [ErrBlobNotFound] if no blob exists
// under name.
func (s *fileBlobStorage) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob %q: %w", name, err)
	}

	return data, nil
}

// Write stores data under name, replacing any previous content atomically.
func (s *fileBlobStorage) Write(ctx context.Context, name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write blob %q: %w", name, err)
	}

	return nil
}

// Remove deletes the blob. Removing an absent blob returns [ErrBlobNotFound].
func (s *fileBlobStorage) Remove(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("remove blob %q: %w", name, err)
	}

	return nil
}

// path resolves a blob name inside the vault directory, refusing names that
// would escape it. Blob names are server-generated UUIDs, so a traversal
// attempt here means a bug upstream, not user input.
func (s *fileBlobStorage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
