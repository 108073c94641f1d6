package crypto

import "errors"

var (
	// ErrAuthentication is returned by Decrypt when the GCM authentication
	// tag does not verify against the supplied key, IV, and ciphertext.
	// It means wrong key, corrupted data, or tampering — the three are
	// indistinguishable by design. Callers rely on this sentinel to drive
	// the legacy-key fallback on the blob read path.
	ErrAuthentication = errors.New("authentication failed: tag mismatch")

	// ErrInvalidSalt is returned by DeriveKey when the salt is not exactly
	// SaltLength bytes. This is a programmer error, not a runtime condition
	// to recover from.
	ErrInvalidSalt = errors.New("salt must be exactly 16 bytes")

	// ErrInvalidEnvelope is returned when a persisted blob cannot be parsed
	// as an encryption envelope (malformed JSON or non-hex fields). Blobs
	// that predate encryption entirely trip this error.
	ErrInvalidEnvelope = errors.New("malformed encryption envelope")
)
