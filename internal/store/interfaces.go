package store

import (
	"context"

	"github.com/ashmelev/cardvault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the persistence boundary for vault accounts. The
// credential store holds only the bcrypt hash and the non-secret salt —
// never a credential or a derived key.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	UpdateCredentialHash(ctx context.Context, userID int64, credentialHash string) error
	SetBanned(ctx context.Context, userID int64, banned bool) error
	TouchLastActive(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, userID int64) error
}

// CardRepository stores document-scan metadata. The encrypted bytes live in
// a BlobStorage under Card.FileName.
type CardRepository interface {
	CreateCard(ctx context.Context, card models.Card) (models.Card, error)
	GetCard(ctx context.Context, cardID, userID int64) (models.Card, error)
	ListCards(ctx context.Context, userID int64, cardType string) ([]models.Card, error)
	DeleteCard(ctx context.Context, cardID, userID int64) error
}

// WalletRepository stores wallet records whose seed phrases are serialized
// encryption envelopes. Soft-deleted wallets stay recoverable until purged.
type WalletRepository interface {
	CreateWallet(ctx context.Context, wallet models.Wallet) (models.Wallet, error)
	ListWallets(ctx context.Context, userID int64, deleted bool) ([]models.Wallet, error)
	UpdateSeedPhrase(ctx context.Context, walletID, userID int64, seedPhrase string) error
	SoftDeleteWallet(ctx context.Context, walletID, userID int64) error
	RestoreWallet(ctx context.Context, walletID, userID int64) error
	PermanentDeleteWallet(ctx context.Context, walletID, userID int64) error
}

// BlobStorage is the opaque "store bytes under a name" capability consumed
// by the encryption core. Implementations know nothing about envelopes,
// keys, or ownership — those concerns live with the caller.
//
// Write must be all-or-nothing: a crashed write may lose the new bytes but
// must never leave a half-written blob behind.
type BlobStorage interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Remove(ctx context.Context, name string) error
}
