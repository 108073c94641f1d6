// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

const (
	// SaltLength is the per-user salt size in bytes.
	SaltLength = 16

	// KeyLength is the derived symmetric key size in bytes (AES-256).
	KeyLength = 32

	// ivLength matches the 16-byte IV the original deployment wrote into
	// every stored envelope. GCM's default nonce is 12 bytes, so the cipher
	// is built with an explicit nonce size to stay byte-compatible.
	ivLength = 16

	// scrypt cost parameters. These are the parameters every stored
	// envelope's key was derived under; changing them orphans the data.
	scryptN = 16384
	scryptR = 8
	scryptP = 1

	// bcryptCost for credential hashing (login verification only).
	bcryptCost = 10
)

// Legacy shared-key material. Before per-user derivation every blob in the
// system was encrypted under scrypt(legacyCredential, legacySalt). The
// literal has to live in code: it is the only way existing ciphertext can
// ever be read again, and it was never a real secret.
const (
	legacyCredential = "choudhary"
	legacySalt       = "fixed_salt_for_simplicity_govt_cards"

	// legacyWalletCredential is the retired master-key passphrase that
	// protected wallet seed phrases before they moved to per-user keys.
	legacyWalletCredential = "super_secret_master_key_for_demo_only"
)

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	legacyOnce sync.Once
	legacyKey  []byte

	legacyWalletOnce sync.Once
	legacyWalletKey  []byte
}

// NewKeyChain constructs a [KeyChain] using scrypt (N=16384, r=8, p=1) for
// key derivation and bcrypt (cost 10) for credential hashing. The scrypt
// parameters are fixed: they must match the ones every stored envelope was
// produced under.
func NewKeyChain() KeyChain {
	return &keyChain{}
}

// GenerateSalt implements [KeyChain]. It reads 16 random bytes from the OS
// CSPRNG. Returns an error if the random read fails.
func (k *keyChain) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey implements [KeyChain]. It runs scrypt over the plaintext
// credential and the per-user salt and returns the 32-byte key. The call is
// deliberately CPU- and memory-expensive (~16 MiB, tens of milliseconds);
// callers on latency-sensitive paths should treat it as blocking work.
func (k *keyChain) DeriveKey(credential string, salt []byte) ([]byte, error) {
	if len(salt) != SaltLength {
		return nil, ErrInvalidSalt
	}

	key, err := scrypt.Key([]byte(credential), salt, scryptN, scryptR, scryptP, KeyLength)
	if err != nil {
		return nil, fmt.Errorf("scrypt derivation: %w", err)
	}

	return key, nil
}

// DeriveLegacyKey implements [KeyChain]. The key is computed once and
// cached: it is a fixed function of two compile-time constants, and the
// read-path fallback may probe it on every legacy blob.
//
// Deprecated: migration support only. Never encrypt new data under it.
func (k *keyChain) DeriveLegacyKey() []byte {
	k.legacyOnce.Do(func() {
		// The legacy salt is the literal ASCII of the old global salt
		// string, not a decoded hex value. That is exactly what the
		// pre-rotation system fed to scrypt.
		key, err := scrypt.Key([]byte(legacyCredential), []byte(legacySalt), scryptN, scryptR, scryptP, KeyLength)
		if err != nil {
			// Unreachable with valid compile-time parameters.
			panic(fmt.Sprintf("legacy key derivation: %v", err))
		}
		k.legacyKey = key
	})

	return k.legacyKey
}

// DeriveLegacyWalletKey implements [KeyChain]. Wallet seed phrases were
// originally sealed under a system-wide master key rather than the
// per-user legacy key, so the migration fallback has to probe both.
//
// Deprecated: migration support only. Never encrypt new data under it.
func (k *keyChain) DeriveLegacyWalletKey() []byte {
	k.legacyWalletOnce.Do(func() {
		key, err := scrypt.Key([]byte(legacyWalletCredential), []byte(legacySalt), scryptN, scryptR, scryptP, KeyLength)
		if err != nil {
			// Unreachable with valid compile-time parameters.
			panic(fmt.Sprintf("legacy wallet key derivation: %v", err))
		}
		k.legacyWalletKey = key
	})

	return k.legacyWalletKey
}

// HashCredential implements [KeyChain] using bcrypt at cost 10. The hash is
// persisted and used only to verify logins.
func (k *keyChain) HashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(hash), nil
}

// VerifyCredential implements [KeyChain]. It is a constant-time comparison
// via bcrypt; any error (mismatch, malformed hash) reports false.
func (k *keyChain) VerifyCredential(credential, credentialHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(credentialHash), []byte(credential)) == nil
}

// Encrypt implements [KeyChain]. It encrypts plaintext under key with
// AES-256-GCM and a fresh random 16-byte IV read from the OS CSPRNG on
// every call. IV reuse under the same key would void GCM's guarantees, so
// the IV is never derived from a counter or clock.
func (k *keyChain) Encrypt(plaintext, key []byte) (Envelope, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return Envelope{}, err
	}

	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Envelope{}, fmt.Errorf("generate iv: %w", err)
	}

	// Seal appends the 16-byte tag to the ciphertext; the envelope stores
	// the two separately.
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	tagStart := len(sealed) - gcm.Overhead()

	return newEnvelope(iv, sealed[:tagStart], sealed[tagStart:]), nil
}

// Decrypt implements [KeyChain]. It reassembles ciphertext‖tag and opens it
// under key. Any tag mismatch — wrong key, corruption, tampering — returns
// ErrAuthentication; plaintext is never partially released.
func (k *keyChain) Decrypt(env Envelope, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	iv, content, tag, err := env.bytes()
	if err != nil {
		return nil, err
	}
	if len(iv) != ivLength || len(tag) != gcm.Overhead() {
		return nil, fmt.Errorf("%w: wrong iv or tag size", ErrInvalidEnvelope)
	}

	sealed := make([]byte, 0, len(content)+len(tag))
	sealed = append(sealed, content...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	if plaintext == nil {
		plaintext = []byte{}
	}

	return plaintext, nil
}

// newGCM builds the AES-256-GCM AEAD with the envelope's 16-byte nonce size.
func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}

// newEnvelope hex-encodes the three raw parts into an Envelope.
func newEnvelope(iv, content, tag []byte) Envelope {
	return Envelope{
		IV:      hex.EncodeToString(iv),
		Content: hex.EncodeToString(content),
		AuthTag: hex.EncodeToString(tag),
	}
}
