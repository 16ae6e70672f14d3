package code

import (
	"testing"
	"time"
)

func TestGenerate_SixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		value, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if !IsValid(value) {
			t.Fatalf("Generate() = %q, want 6 ASCII digits", value)
		}
	}
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"12 456", false},
		{"１２３４５６", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValid(tc.value); got != tc.want {
			t.Errorf("IsValid(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestNew_DefaultTTL(t *testing.T) {
	now := time.Now().UTC()
	cv, err := New("session-1", now, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if cv.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want %q", cv.SessionID, "session-1")
	}
	if cv.ID == "" {
		t.Error("ID is empty")
	}
	if !cv.ExpiresAt.Equal(now.Add(DefaultTTL)) {
		t.Errorf("ExpiresAt = %v, want %v", cv.ExpiresAt, now.Add(DefaultTTL))
	}
	if cv.Used() {
		t.Error("new code reports used")
	}
}

func TestFrom_InvalidValue(t *testing.T) {
	if _, err := From("session-1", "12345", time.Now().UTC(), 0); err != ErrInvalidCode {
		t.Fatalf("From() error = %v, want ErrInvalidCode", err)
	}
}

func TestFrom_CustomTTL(t *testing.T) {
	now := time.Now().UTC()
	cv, err := From("session-1", "654321", now, 15*time.Minute)
	if err != nil {
		t.Fatalf("From() error: %v", err)
	}
	if !cv.ExpiresAt.Equal(now.Add(15 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want %v", cv.ExpiresAt, now.Add(15*time.Minute))
	}
	if cv.Expired(now) {
		t.Error("fresh code reports expired")
	}
	if !cv.Expired(now.Add(16 * time.Minute)) {
		t.Error("code past its expiry not reported expired")
	}
}

func TestExpired_BoundaryIsNotExpired(t *testing.T) {
	now := time.Now().UTC()
	cv, err := From("session-1", "111111", now, time.Hour)
	if err != nil {
		t.Fatalf("From() error: %v", err)
	}
	// A code checked exactly at its expiry instant is still valid.
	if cv.Expired(cv.ExpiresAt) {
		t.Error("code at exact expiry instant reports expired")
	}
}
