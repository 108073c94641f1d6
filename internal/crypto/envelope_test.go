package crypto

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEnvelope_MarshalUsesPersistedFieldNames(t *testing.T) {
	env := Envelope{IV: "00112233445566778899aabbccddeeff", Content: "ab", AuthTag: "cd"}

	raw, err := env.Marshal()
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	// existing stored data uses exactly these three keys
	for _, key := range []string{"iv", "content", "authTag"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("persisted envelope is missing field %q", key)
		}
	}
	if len(fields) != 3 {
		t.Fatalf("persisted envelope has %d fields, want 3", len(fields))
	}
}

func TestParseEnvelope_RoundTrip(t *testing.T) {
	kc := NewKeyChain()
	key := make([]byte, KeyLength)

	env, err := kc.Encrypt([]byte("payload"), key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	raw, err := env.Marshal()
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	parsed, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope error: %v", err)
	}

	got, err := kc.Decrypt(parsed, key)
	if err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("round-trip mismatch: %q", got)
	}
}

func TestParseEnvelope_RejectsNonEnvelopeBytes(t *testing.T) {
	cases := map[string][]byte{
		"raw pdf bytes": []byte("%PDF-1.7 ..."),
		"empty":         nil,
		"json array":    []byte(`[1,2,3]`),
		"missing tag":   []byte(`{"iv":"00","content":"11"}`),
		"non-hex iv":    []byte(`{"iv":"zz","content":"11","authTag":"22"}`),
	}

	for name, raw := range cases {
		if _, err := ParseEnvelope(raw); !errors.Is(err, ErrInvalidEnvelope) {
			t.Fatalf("%s: got %v, want ErrInvalidEnvelope", name, err)
		}
	}
}
