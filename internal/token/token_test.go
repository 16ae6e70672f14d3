package token

import (
	"testing"
	"time"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")
	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)

	raw, err := codec.Encode(Payload{SessionID: "session-1", ExpiresAt: &expiry})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	p, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want %q", p.SessionID, "session-1")
	}
	if p.ExpiresAt == nil || !p.ExpiresAt.Equal(expiry) {
		t.Errorf("ExpiresAt = %v, want %v", p.ExpiresAt, expiry)
	}
}

func TestDecode_NoExpiry(t *testing.T) {
	codec := NewCodec("test-secret")

	raw, err := codec.Encode(Payload{SessionID: "session-1"})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	p, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", p.ExpiresAt)
	}
}

func TestDecode_ExpiredPayloadStillDecodes(t *testing.T) {
	codec := NewCodec("test-secret")
	expiry := time.Now().UTC().Add(-time.Hour)

	raw, err := codec.Encode(Payload{SessionID: "session-1", ExpiresAt: &expiry})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	// Expiry is data for the caller, not enforced at decode time.
	p, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.ExpiresAt == nil {
		t.Fatal("ExpiresAt = nil, want the embedded expiry")
	}
}

func TestDecode_WrongSecret(t *testing.T) {
	raw, err := NewCodec("secret-a").Encode(Payload{SessionID: "session-1"})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if _, err := NewCodec("secret-b").Decode(raw); err != ErrInvalidToken {
		t.Fatalf("Decode() error = %v, want ErrInvalidToken", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	codec := NewCodec("test-secret")
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Decode(raw); err != ErrInvalidToken {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidToken", raw, err)
		}
	}
}
