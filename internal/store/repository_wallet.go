package store

import (
	"context"
	"fmt"

	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/models"
)

// walletRepository is the PostgreSQL-backed implementation of
// [WalletRepository]. Seed phrases arrive and leave this layer as opaque
// envelope JSON; encryption happens entirely above it.
type walletRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewWalletRepository constructs a [WalletRepository] backed by the provided
// database connection and logger.
func NewWalletRepository(db *DB, logger *logger.Logger) WalletRepository {
	logger.Debug().Msg("creating wallet repository")
	return &walletRepository{
		db:     db,
		logger: logger,
	}
}

// CreateWallet persists the wallet row and returns it with server-assigned
// fields (WalletID, CreatedAt).
func (r *walletRepository) CreateWallet(ctx context.Context, wallet models.Wallet) (models.Wallet, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createWallet, wallet.UserID, wallet.Name, wallet.SeedPhrase)

	var created models.Wallet
	if err := row.Scan(&created.WalletID, &created.UserID, &created.Name,
		&created.SeedPhrase, &created.DeletedAt, &created.CreatedAt); err != nil {
		log.Err(err).Str("func", "*walletRepository.CreateWallet").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: creating wallet")
		return models.Wallet{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return created, nil
}

// ListWallets returns the user's live wallets, or the recycle-bin contents
// when deleted is true. Newest first.
func (r *walletRepository) ListWallets(ctx context.Context, userID int64, deleted bool) ([]models.Wallet, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListWalletsQuery(userID, deleted)
	if err != nil {
		log.Err(err).Str("func", "*walletRepository.ListWallets").Msg("error: building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*walletRepository.ListWallets").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		var wallet models.Wallet
		if err := rows.Scan(&wallet.WalletID, &wallet.UserID, &wallet.Name,
			&wallet.SeedPhrase, &wallet.DeletedAt, &wallet.CreatedAt); err != nil {
			log.Err(err).Str("func", "*walletRepository.ListWallets").Msg("error: scanning wallet rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return wallets, nil
}

// UpdateSeedPhrase replaces the stored envelope JSON, used by the bulk
// re-encryption pass during a credential change and by the read-path
// self-heal.
func (r *walletRepository) UpdateSeedPhrase(ctx context.Context, walletID, userID int64, seedPhrase string) error {
	return r.execExpectingWallet(ctx, "*walletRepository.UpdateSeedPhrase", updateSeedPhrase, seedPhrase, walletID, userID)
}

// SoftDeleteWallet moves a live wallet to the recycle bin.
func (r *walletRepository) SoftDeleteWallet(ctx context.Context, walletID, userID int64) error {
	return r.execExpectingWallet(ctx, "*walletRepository.SoftDeleteWallet", softDeleteWallet, walletID, userID)
}

// RestoreWallet brings a wallet back from the recycle bin.
func (r *walletRepository) RestoreWallet(ctx context.Context, walletID, userID int64) error {
	return r.execExpectingWallet(ctx, "*walletRepository.RestoreWallet", restoreWallet, walletID, userID)
}

// PermanentDeleteWallet purges a recycled wallet. Only soft-deleted wallets
// can be purged; a live wallet must go through the recycle bin first.
func (r *walletRepository) PermanentDeleteWallet(ctx context.Context, walletID, userID int64) error {
	return r.execExpectingWallet(ctx, "*walletRepository.PermanentDeleteWallet", permanentDeleteWallet, walletID, userID)
}

// execExpectingWallet runs a DML statement that must affect exactly one
// wallet row, mapping zero affected rows to [ErrWalletNotFound].
func (r *walletRepository) execExpectingWallet(ctx context.Context, fn, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrWalletNotFound
	}

	return nil
}
