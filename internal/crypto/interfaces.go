package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_mock.go -package=mock

// KeyChain owns every cryptographic primitive of the vault: credential
// hashing for login verification, credential-to-key derivation, and
// authenticated encryption of blobs. It knows nothing about the network,
// the database, or sessions.
//
// Two deliberately separate credential functions exist even though both are
// built on password-hashing primitives:
//
//	HashCredential / VerifyCredential — one-way hash persisted for login.
//	DeriveKey                         — reproducible key, never persisted.
//
// Changing one must never affect the other.
type KeyChain interface {
	// GenerateSalt generates a random per-user salt (16 bytes / 128 bits).
	// The salt is not a secret — it is stored in the user row in the clear.
	// It exists so that identical credentials yield different keys.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives the 32-byte symmetric encryption key from the
	// user's plaintext credential and their salt. Deterministic: the same
	// inputs always yield the same key, which is what allows login to
	// re-derive the key instead of storing it anywhere.
	// Returns ErrInvalidSalt if the salt is not exactly 16 bytes.
	DeriveKey(credential string, salt []byte) ([]byte, error)

	// DeriveLegacyKey derives the system-wide fixed key that protected all
	// vault data before per-user derivation was introduced.
	//
	// Deprecated: retained ONLY so the read path can migrate old envelopes.
	// Never use it to encrypt new data.
	DeriveLegacyKey() []byte

	// DeriveLegacyWalletKey derives the retired system-wide master key that
	// protected wallet seed phrases specifically. Wallets predate the shared
	// legacy key, so the read path probes this one as well.
	//
	// Deprecated: retained ONLY so the read path can migrate old envelopes.
	// Never use it to encrypt new data.
	DeriveLegacyWalletKey() []byte

	// HashCredential computes the one-way hash of a credential that is
	// persisted for login verification. Distinct from DeriveKey on purpose.
	HashCredential(credential string) (string, error)

	// VerifyCredential reports whether credential matches the stored hash.
	VerifyCredential(credential, credentialHash string) bool

	// Encrypt produces an authenticated envelope for plaintext under key,
	// with a fresh random IV on every call. Zero-length plaintext is valid.
	Encrypt(plaintext, key []byte) (Envelope, error)

	// Decrypt recovers the plaintext from an envelope, or fails closed with
	// ErrAuthentication if the tag does not verify under key.
	Decrypt(env Envelope, key []byte) ([]byte, error)
}
