package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ashmelev/cardvault/internal/crypto"
	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/internal/store"
	"github.com/ashmelev/cardvault/internal/utils"
	"github.com/ashmelev/cardvault/internal/validators"
	"github.com/ashmelev/cardvault/internal/workers"
	"github.com/ashmelev/cardvault/models"
)

// redactedSeedPhrase is what a wallet listing shows for a seed phrase that
// no known key decrypts. The row itself is preserved untouched.
const redactedSeedPhrase = "[unreadable]"

// vaultService is the concrete implementation of VaultService. Every blob
// that passes through it is encrypted on the way in and decrypted — with
// the legacy-key fallback and write-through migration — on the way out.
type vaultService struct {
	cardRepository   store.CardRepository
	walletRepository store.WalletRepository
	blobs            store.BlobStorage

	keyChain crypto.KeyChain

	// pool bounds the concurrency of bulk re-encryption so a credential
	// change cannot monopolize the process.
	pool *workers.Pool

	// uuid names card blobs; the name is the only link between a card row
	// and its bytes.
	uuid *utils.UUIDGenerator

	validator validators.Validator

	logger *logger.Logger
}

// NewVaultService constructs a VaultService over the given storages.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewVaultService(
	cardRepository store.CardRepository,
	walletRepository store.WalletRepository,
	blobs store.BlobStorage,
	keyChain crypto.KeyChain,
	pool *workers.Pool,
	logger *logger.Logger,
) VaultService {
	return &vaultService{
		cardRepository:   cardRepository,
		walletRepository: walletRepository,
		blobs:            blobs,
		keyChain:         keyChain,
		pool:             pool,
		uuid:             utils.NewUUIDGenerator(),
		validator:        validators.NewVaultDataValidator(),
		logger:           logger,
	}
}

// WriteBlob encrypts plaintext under key into a fresh envelope.
func (v *vaultService) WriteBlob(plaintext, key []byte) (crypto.Envelope, error) {
	env, err := v.keyChain.Encrypt(plaintext, key)
	if err != nil {
		return crypto.Envelope{}, fmt.Errorf("blob encryption failed: %w", err)
	}

	return env, nil
}

// ReadBlob loads the named blob and recovers its plaintext.
//
// The decrypt order is fixed: the caller's key first, then the retired
// system-wide key. A legacy hit is healed in place — the plaintext is
// re-encrypted under the caller's key and written back atomically — so the
// migration converges one blob per read without any offline pass. If the
// write-back fails the plaintext is still served and the next read retries.
func (v *vaultService) ReadBlob(ctx context.Context, name string, key []byte) ([]byte, Outcome, error) {
	log := logger.FromContext(ctx)

	raw, err := v.blobs.Read(ctx, name)
	if err != nil {
		return nil, Unreadable, fmt.Errorf("blob read failed: %w", err)
	}

	env, err := crypto.ParseEnvelope(raw)
	if err != nil {
		// Not an envelope at all: a plain file written before encryption
		// existed. The caller gets the stored bytes and decides.
		log.Warn().Str("blob", name).Msg("stored blob is not an envelope")
		return raw, Unreadable, ErrUnreadableBlob
	}

	plaintext, outcome := v.decryptWithFallback(env, key)
	if outcome == Unreadable {
		log.Warn().Str("blob", name).Msg("blob is unreadable under any known key")
		return raw, Unreadable, ErrUnreadableBlob
	}

	if outcome == DecryptedLegacyAndMigrated {
		if err := v.rewriteBlob(ctx, name, plaintext, key); err != nil {
			// Self-heal is best-effort: the plaintext is already
			// recovered, and the next read will retry the migration.
			log.Warn().Err(err).Str("blob", name).Msg("legacy blob migration failed, will retry on next read")
		} else {
			log.Info().Str("blob", name).Msg("migrated legacy blob to per-user key")
		}
	}

	return plaintext, outcome, nil
}

// decryptWithFallback tries the caller's key, then each retired system-wide
// key. It never writes anything.
func (v *vaultService) decryptWithFallback(env crypto.Envelope, key []byte) ([]byte, Outcome) {
	plaintext, err := v.keyChain.Decrypt(env, key)
	if err == nil {
		return plaintext, DecryptedCurrent
	}
	if !errors.Is(err, crypto.ErrAuthentication) {
		return nil, Unreadable
	}

	// Wallet seed phrases predate the shared legacy key and were sealed
	// under the old master key instead, so both retired keys get a chance.
	for _, retired := range [][]byte{v.keyChain.DeriveLegacyKey(), v.keyChain.DeriveLegacyWalletKey()} {
		if plaintext, err = v.keyChain.Decrypt(env, retired); err == nil {
			return plaintext, DecryptedLegacyAndMigrated
		}
	}

	return nil, Unreadable
}

// rewriteBlob re-encrypts plaintext under key and persists it over the
// existing blob. The underlying storage write is all-or-nothing.
func (v *vaultService) rewriteBlob(ctx context.Context, name string, plaintext, key []byte) error {
	env, err := v.keyChain.Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("re-encryption failed: %w", err)
	}

	raw, err := env.Marshal()
	if err != nil {
		return err
	}

	if err := v.blobs.Write(ctx, name, raw); err != nil {
		return fmt.Errorf("blob write failed: %w", err)
	}

	return nil
}

// UploadCard encrypts content under key, stores it under a fresh UUID blob
// name, and persists the card row. The blob is removed again if the row
// cannot be created.
func (v *vaultService) UploadCard(ctx context.Context, key []byte, card models.Card, content []byte) (models.Card, error) {
	log := logger.FromContext(ctx)

	// title is optional; untitled cards display under their type
	if err := v.validator.Validate(ctx, card, validators.FieldUserID, validators.FieldType); err != nil {
		return models.Card{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	env, err := v.WriteBlob(content, key)
	if err != nil {
		return models.Card{}, err
	}

	raw, err := env.Marshal()
	if err != nil {
		return models.Card{}, err
	}

	card.FileName = v.uuid.Generate()
	if err := v.blobs.Write(ctx, card.FileName, raw); err != nil {
		return models.Card{}, fmt.Errorf("card blob write failed: %w", err)
	}

	created, err := v.cardRepository.CreateCard(ctx, card)
	if err != nil {
		if removeErr := v.blobs.Remove(ctx, card.FileName); removeErr != nil {
			log.Warn().Err(removeErr).Str("blob", card.FileName).Msg("orphan blob cleanup failed")
		}
		return models.Card{}, fmt.Errorf("card creation ended with error: %w", err)
	}

	return created, nil
}

// DownloadCard returns the card row and its decrypted content. On
// Unreadable the content is the raw stored bytes together with
// ErrUnreadableBlob; the transport layer decides whether to serve them.
func (v *vaultService) DownloadCard(ctx context.Context, cardID, userID int64, key []byte) (models.Card, []byte, Outcome, error) {
	card, err := v.cardRepository.GetCard(ctx, cardID, userID)
	if err != nil {
		return models.Card{}, nil, Unreadable, fmt.Errorf("card lookup failed: %w", err)
	}

	content, outcome, err := v.ReadBlob(ctx, card.FileName, key)
	if err != nil && !errors.Is(err, ErrUnreadableBlob) {
		return models.Card{}, nil, outcome, err
	}

	return card, content, outcome, err
}

func (v *vaultService) ListCards(ctx context.Context, userID int64, cardType string) ([]models.Card, error) {
	cards, err := v.cardRepository.ListCards(ctx, userID, cardType)
	if err != nil {
		return nil, fmt.Errorf("card listing failed: %w", err)
	}

	return cards, nil
}

// DeleteCard removes the card row first, then the blob. A blob left behind
// by a failed remove is unreachable and harmless; a row pointing at a
// deleted blob is not.
func (v *vaultService) DeleteCard(ctx context.Context, cardID, userID int64) error {
	log := logger.FromContext(ctx)

	card, err := v.cardRepository.GetCard(ctx, cardID, userID)
	if err != nil {
		return fmt.Errorf("card lookup failed: %w", err)
	}

	if err := v.cardRepository.DeleteCard(ctx, cardID, userID); err != nil {
		return fmt.Errorf("card deletion failed: %w", err)
	}

	if err := v.blobs.Remove(ctx, card.FileName); err != nil {
		log.Warn().Err(err).Str("blob", card.FileName).Msg("card blob removal failed")
	}

	return nil
}

// CreateWallet encrypts the seed phrase under key and stores the envelope
// JSON in the wallet row. The plaintext never reaches the repository.
func (v *vaultService) CreateWallet(ctx context.Context, key []byte, wallet models.Wallet, seedPhrase string) (models.Wallet, error) {
	if err := v.validator.Validate(ctx, wallet, validators.FieldUserID, validators.FieldName); err != nil {
		return models.Wallet{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if seedPhrase == "" {
		return models.Wallet{}, ErrInvalidDataProvided
	}

	env, err := v.WriteBlob([]byte(seedPhrase), key)
	if err != nil {
		return models.Wallet{}, err
	}

	raw, err := env.Marshal()
	if err != nil {
		return models.Wallet{}, err
	}

	wallet.SeedPhrase = string(raw)
	created, err := v.walletRepository.CreateWallet(ctx, wallet)
	if err != nil {
		return models.Wallet{}, fmt.Errorf("wallet creation ended with error: %w", err)
	}

	created.SeedPhrase = seedPhrase
	return created, nil
}

// ListWallets returns the user's wallets with decrypted seed phrases.
// A row that fails to decrypt is redacted, never dropped: the listing must
// not hide a wallet just because its phrase is unreadable. Legacy rows are
// migrated in place as a side effect of being listed.
func (v *vaultService) ListWallets(ctx context.Context, userID int64, key []byte, deleted bool) ([]models.Wallet, error) {
	log := logger.FromContext(ctx)

	wallets, err := v.walletRepository.ListWallets(ctx, userID, deleted)
	if err != nil {
		return nil, fmt.Errorf("wallet listing failed: %w", err)
	}

	for i := range wallets {
		env, err := crypto.ParseEnvelope([]byte(wallets[i].SeedPhrase))
		if err != nil {
			log.Warn().Int64("wallet", wallets[i].WalletID).Msg("stored seed phrase is not an envelope")
			wallets[i].SeedPhrase = redactedSeedPhrase
			continue
		}

		plaintext, outcome := v.decryptWithFallback(env, key)
		if outcome == Unreadable {
			log.Warn().Int64("wallet", wallets[i].WalletID).Msg("seed phrase is unreadable under any known key")
			wallets[i].SeedPhrase = redactedSeedPhrase
			continue
		}

		if outcome == DecryptedLegacyAndMigrated {
			if err := v.rewriteSeedPhrase(ctx, wallets[i].WalletID, userID, plaintext, key); err != nil {
				log.Warn().Err(err).Int64("wallet", wallets[i].WalletID).Msg("legacy seed phrase migration failed, will retry on next listing")
			} else {
				log.Info().Int64("wallet", wallets[i].WalletID).Msg("migrated legacy seed phrase to per-user key")
			}
		}

		wallets[i].SeedPhrase = string(plaintext)
	}

	return wallets, nil
}

// rewriteSeedPhrase re-encrypts a seed phrase under key and persists the
// new envelope into the wallet row.
func (v *vaultService) rewriteSeedPhrase(ctx context.Context, walletID, userID int64, plaintext, key []byte) error {
	env, err := v.keyChain.Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("re-encryption failed: %w", err)
	}

	raw, err := env.Marshal()
	if err != nil {
		return err
	}

	if err := v.walletRepository.UpdateSeedPhrase(ctx, walletID, userID, string(raw)); err != nil {
		return fmt.Errorf("seed phrase update failed: %w", err)
	}

	return nil
}

func (v *vaultService) SoftDeleteWallet(ctx context.Context, walletID, userID int64) error {
	if err := v.walletRepository.SoftDeleteWallet(ctx, walletID, userID); err != nil {
		return fmt.Errorf("wallet soft deletion failed: %w", err)
	}

	return nil
}

func (v *vaultService) RestoreWallet(ctx context.Context, walletID, userID int64) error {
	if err := v.walletRepository.RestoreWallet(ctx, walletID, userID); err != nil {
		return fmt.Errorf("wallet restore failed: %w", err)
	}

	return nil
}

func (v *vaultService) PermanentDeleteWallet(ctx context.Context, walletID, userID int64) error {
	if err := v.walletRepository.PermanentDeleteWallet(ctx, walletID, userID); err != nil {
		return fmt.Errorf("wallet purge failed: %w", err)
	}

	return nil
}

// ReencryptUserVault rewrites every owned blob — card files and wallet
// seed phrases, recycle bin included — from oldKey to newKey on the
// bounded worker pool. The legacy fallback applies here too, so a
// credential change also finishes any pending migrations.
//
// The pass is best-effort per blob: a blob that cannot be re-encrypted is
// left exactly as it was and counted in the report, because a half-failed
// credential change must never destroy data that the old envelope still
// protects.
func (v *vaultService) ReencryptUserVault(ctx context.Context, userID int64, oldKey, newKey []byte) (ReencryptReport, error) {
	log := logger.FromContext(ctx)

	cards, err := v.cardRepository.ListCards(ctx, userID, "")
	if err != nil {
		return ReencryptReport{}, fmt.Errorf("card enumeration failed: %w", err)
	}

	var wallets []models.Wallet
	for _, deleted := range []bool{false, true} {
		batch, err := v.walletRepository.ListWallets(ctx, userID, deleted)
		if err != nil {
			return ReencryptReport{}, fmt.Errorf("wallet enumeration failed: %w", err)
		}
		wallets = append(wallets, batch...)
	}

	var reencrypted, failed atomic.Int64

	tasks := make([]workers.Task, 0, len(cards)+len(wallets))
	for _, card := range cards {
		name := card.FileName
		tasks = append(tasks, func(ctx context.Context) error {
			if err := v.reencryptCardBlob(ctx, name, oldKey, newKey); err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("blob", name).Msg("card blob re-encryption failed")
				return err
			}
			reencrypted.Add(1)
			return nil
		})
	}
	for _, wallet := range wallets {
		walletID, stored := wallet.WalletID, wallet.SeedPhrase
		tasks = append(tasks, func(ctx context.Context) error {
			if err := v.reencryptSeedPhrase(ctx, walletID, userID, stored, oldKey, newKey); err != nil {
				failed.Add(1)
				log.Warn().Err(err).Int64("wallet", walletID).Msg("seed phrase re-encryption failed")
				return err
			}
			reencrypted.Add(1)
			return nil
		})
	}

	// Per-task errors are already counted; the joined error is dropped so
	// the report reaches the caller even on partial failure.
	_ = v.pool.Run(ctx, tasks)

	report := ReencryptReport{
		Total:       len(tasks),
		Reencrypted: int(reencrypted.Load()),
		Failed:      int(failed.Load()),
	}

	log.Info().
		Int64("userID", userID).
		Int("total", report.Total).
		Int("reencrypted", report.Reencrypted).
		Int("failed", report.Failed).
		Msg("vault re-encryption finished")

	return report, nil
}

func (v *vaultService) reencryptCardBlob(ctx context.Context, name string, oldKey, newKey []byte) error {
	raw, err := v.blobs.Read(ctx, name)
	if err != nil {
		return fmt.Errorf("blob read failed: %w", err)
	}

	env, err := crypto.ParseEnvelope(raw)
	if err != nil {
		return err
	}

	plaintext, outcome := v.decryptWithFallback(env, oldKey)
	if outcome == Unreadable {
		return ErrUnreadableBlob
	}

	return v.rewriteBlob(ctx, name, plaintext, newKey)
}

func (v *vaultService) reencryptSeedPhrase(ctx context.Context, walletID, userID int64, stored string, oldKey, newKey []byte) error {
	env, err := crypto.ParseEnvelope([]byte(stored))
	if err != nil {
		return err
	}

	plaintext, outcome := v.decryptWithFallback(env, oldKey)
	if outcome == Unreadable {
		return ErrUnreadableBlob
	}

	return v.rewriteSeedPhrase(ctx, walletID, userID, plaintext, newKey)
}

// PurgeUserBlobs removes every stored card blob of a user. Failures are
// logged and skipped: the account rows are about to cascade away, and an
// orphan encrypted blob is unreachable without the owner's key.
func (v *vaultService) PurgeUserBlobs(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	cards, err := v.cardRepository.ListCards(ctx, userID, "")
	if err != nil {
		return fmt.Errorf("card enumeration failed: %w", err)
	}

	for _, card := range cards {
		if err := v.blobs.Remove(ctx, card.FileName); err != nil {
			log.Warn().Err(err).Str("blob", card.FileName).Msg("blob removal failed during account purge")
		}
	}

	return nil
}
