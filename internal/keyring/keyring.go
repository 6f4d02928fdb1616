package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/constants"
)

var (
	// ErrNotFound is returned when no session token is stored in the keyring
	ErrNotFound = errors.New("session token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// TokenStore persists the opaque session token between runs
type TokenStore interface {
	GetToken() (string, error)
	SetToken(token string) error
	DeleteToken() error
}

// Store is a TokenStore backed by the OS keyring. The account name lets
// several backends (e.g. staging and production) keep separate sessions.
type Store struct {
	account string
}

// New returns a keyring Store for the given account. An empty account uses the default.
func New(account string) *Store {
	if account == "" {
		account = constants.DefaultKeyringUser
	}
	return &Store{account: account}
}

// GetToken retrieves the session token from the OS keyring.
// Returns ErrNotFound if no token is stored.
func (s *Store) GetToken() (string, error) {
	token, err := keyring.Get(constants.AppName, s.account)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetToken stores the session token in the OS keyring.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return errors.New("session token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, s.account, token); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the session token from the OS keyring.
func (s *Store) DeleteToken() error {
	err := keyring.Delete(constants.AppName, s.account)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}
