package crypto

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Envelope is the at-rest representation of an encrypted blob: a fresh
// random IV, the ciphertext, and the GCM authentication tag, each
// hex-encoded and independently recoverable.
//
// The JSON field names (iv, content, authTag) and hex encoding are
// load-bearing: existing vault data is stored in exactly this shape, and
// the legacy-detection logic in the vault service distinguishes envelopes
// only by which key decrypts them, never by a format tag.
type Envelope struct {
	IV      string `json:"iv"`
	Content string `json:"content"`
	AuthTag string `json:"authTag"`
}

// Marshal serializes the envelope to its persisted JSON form.
func (e Envelope) Marshal() ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return raw, nil
}

// bytes decodes the three hex fields into their raw byte form.
func (e Envelope) bytes() (iv, content, tag []byte, err error) {
	if iv, err = hex.DecodeString(e.IV); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad iv: %w", ErrInvalidEnvelope, err)
	}
	if content, err = hex.DecodeString(e.Content); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad content: %w", ErrInvalidEnvelope, err)
	}
	if tag, err = hex.DecodeString(e.AuthTag); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad authTag: %w", ErrInvalidEnvelope, err)
	}
	return iv, content, tag, nil
}

// ParseEnvelope deserializes a persisted blob into an Envelope.
//
// Returns ErrInvalidEnvelope if raw is not an envelope at all — that is how
// pre-encryption plain files are detected on the read path. All three
// fields must be present and hex-decodable.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}

	if env.IV == "" || env.AuthTag == "" {
		return Envelope{}, fmt.Errorf("%w: missing fields", ErrInvalidEnvelope)
	}

	if _, _, _, err := env.bytes(); err != nil {
		return Envelope{}, err
	}

	return env, nil
}
