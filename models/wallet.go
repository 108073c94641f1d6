package models

import "time"

// Wallet holds one cryptocurrency wallet record. The seed phrase is
// persisted as a serialized encryption envelope, never in plaintext; the
// SeedPhrase field carries plaintext only transiently on the way to or
// from the crypto layer.
type Wallet struct {
	// WalletID is the internal unique identifier of the wallet.
	WalletID int64 `json:"id"`

	// UserID is the owner of the wallet.
	UserID int64 `json:"-"`

	// Name is the user-visible wallet label.
	Name string `json:"name"`

	// SeedPhrase is the envelope JSON at rest. Service-layer responses
	// replace it with the decrypted phrase (or a redaction marker when
	// decryption fails).
	SeedPhrase string `json:"seed_phrase"`

	// DeletedAt is set when the wallet is moved to the recycle bin.
	// Soft-deleted wallets can be restored or purged permanently.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// CreatedAt is the timestamp when the wallet was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Wallet model.
func (w Wallet) TableName() string {
	return "wallets"
}
