package store

import (
	"context"
	"fmt"

	"github.com/ashmelev/cardvault/internal/config"
	"github.com/ashmelev/cardvault/internal/logger"
)

// Storages aggregates every persistence backend the application uses.
type Storages struct {
	UserRepository   UserRepository
	CardRepository   CardRepository
	WalletRepository WalletRepository
	BlobStorage      BlobStorage
}

// NewStorages connects to PostgreSQL, runs pending migrations, and wires the
// repositories plus the configured blob backend ("file" by default, "s3"
// when selected).
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	var blobs BlobStorage
	switch cfg.BlobBackend {
	case "", config.BlobBackendFile:
		blobs, err = NewFileBlobStorage(cfg.Files, logger)
	case config.BlobBackendS3:
		blobs, err = NewS3BlobStorage(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("create blob storage: %w", err)
	}

	return &Storages{
		UserRepository:   NewUserRepository(db, logger),
		CardRepository:   NewCardRepository(db, logger),
		WalletRepository: NewWalletRepository(db, logger),
		BlobStorage:      blobs,
	}, nil
}
