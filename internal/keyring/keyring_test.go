package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetToken(t *testing.T) {
	gokeyring.MockInit()
	s := New("")

	if err := s.SetToken("eyJhbGciOi.test.token"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}

	got, err := s.GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	if got != "eyJhbGciOi.test.token" {
		t.Errorf("GetToken() = %q, want %q", got, "eyJhbGciOi.test.token")
	}
}

func TestSetTokenEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := New("").SetToken(""); err == nil {
		t.Error("SetToken(\"\") should return an error")
	}
}

func TestAccountsAreIsolated(t *testing.T) {
	gokeyring.MockInit()
	prod := New("prod")
	staging := New("staging")

	if err := prod.SetToken("prod-token"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}
	if _, err := staging.GetToken(); err != ErrNotFound {
		t.Errorf("staging GetToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteToken(t *testing.T) {
	gokeyring.MockInit()
	s := New("")

	if err := s.SetToken("token"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}
	if err := s.DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() failed: %v", err)
	}
	if _, err := s.GetToken(); err != ErrNotFound {
		t.Errorf("After DeleteToken(), GetToken() error = %v, want %v", err, ErrNotFound)
	}
	if err := s.DeleteToken(); err != ErrNotFound {
		t.Errorf("second DeleteToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
