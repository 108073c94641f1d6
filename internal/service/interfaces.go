package service

import (
	"context"

	"github.com/ashmelev/cardvault/internal/crypto"
	"github.com/ashmelev/cardvault/models"
)

// Outcome reports how a stored blob was recovered on the read path.
type Outcome int

const (
	// DecryptedCurrent means the blob decrypted under the caller's key.
	DecryptedCurrent Outcome = iota

	// DecryptedLegacyAndMigrated means the blob only decrypted under the
	// retired system-wide key and has been re-encrypted in place under the
	// caller's key. A second read of the same blob decrypts current.
	DecryptedLegacyAndMigrated

	// Unreadable means no known key decrypts the blob.
	Unreadable
)

// String implements [fmt.Stringer] for log output.
func (o Outcome) String() string {
	switch o {
	case DecryptedCurrent:
		return "current"
	case DecryptedLegacyAndMigrated:
		return "legacy-migrated"
	case Unreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// ReencryptReport summarizes a bulk re-encryption pass over a user's vault.
// Per-blob failures do not abort the pass; they are counted here.
type ReencryptReport struct {
	Total       int `json:"total"`
	Reencrypted int `json:"reencrypted"`
	Failed      int `json:"failed"`
}

// AuthService owns the account and session-key lifecycle: registration,
// login, logout, credential changes (including the bulk vault
// re-encryption they trigger), account deletion, admin bans, and the JWT
// layer whose "jti" claim keys the in-memory session key store.
type AuthService interface {
	Register(ctx context.Context, username, credential string) (models.User, models.Token, error)
	Login(ctx context.Context, username, credential string) (models.User, models.Token, error)
	Logout(ctx context.Context, sessionID string)
	ChangeCredential(ctx context.Context, userID int64, sessionID, oldCredential, newCredential string) (ReencryptReport, error)
	DeleteAccount(ctx context.Context, userID int64, sessionID, credential string) error
	SetUserBan(ctx context.Context, adminID int64, adminCredential string, targetID int64, banned bool) error

	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// TouchLastActive records activity on the account. Called
	// fire-and-forget from the auth middleware.
	TouchLastActive(ctx context.Context, userID int64) error
}

// VaultService owns every operation that touches encrypted vault data:
// the envelope read/write core with its legacy-key self-healing, the card
// blob operations built on it, the wallet seed-phrase operations, and the
// bulk re-encryption used by credential changes.
type VaultService interface {
	// WriteBlob encrypts plaintext under key into a fresh envelope.
	WriteBlob(plaintext, key []byte) (crypto.Envelope, error)

	// ReadBlob loads the named blob and decrypts it under key, falling
	// back to the retired system-wide key and migrating the blob in place
	// when that succeeds. On Unreadable the returned bytes are the raw
	// stored content together with ErrUnreadableBlob; the caller decides
	// whether serving them is acceptable.
	ReadBlob(ctx context.Context, name string, key []byte) ([]byte, Outcome, error)

	UploadCard(ctx context.Context, key []byte, card models.Card, content []byte) (models.Card, error)
	DownloadCard(ctx context.Context, cardID, userID int64, key []byte) (models.Card, []byte, Outcome, error)
	ListCards(ctx context.Context, userID int64, cardType string) ([]models.Card, error)
	DeleteCard(ctx context.Context, cardID, userID int64) error

	CreateWallet(ctx context.Context, key []byte, wallet models.Wallet, seedPhrase string) (models.Wallet, error)
	ListWallets(ctx context.Context, userID int64, key []byte, deleted bool) ([]models.Wallet, error)
	SoftDeleteWallet(ctx context.Context, walletID, userID int64) error
	RestoreWallet(ctx context.Context, walletID, userID int64) error
	PermanentDeleteWallet(ctx context.Context, walletID, userID int64) error

	// ReencryptUserVault rewrites every owned blob from oldKey to newKey.
	// Blobs that fail are left as they were and counted in the report.
	ReencryptUserVault(ctx context.Context, userID int64, oldKey, newKey []byte) (ReencryptReport, error)

	// PurgeUserBlobs removes the stored card blobs of a user, best-effort.
	// Used by account deletion before the rows cascade away.
	PurgeUserBlobs(ctx context.Context, userID int64) error
}
