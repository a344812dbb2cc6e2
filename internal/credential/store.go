// Package credential persists the single Linear API key.
package credential

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/roeyazroel/linear-inbox/internal/config"
)

const (
	// Service and Account identify the stored key in every backend.
	Service = "com.linearinbox.apikey"
	Account = "linear-api-key"
)

var (
	// ErrItemNotFound is returned when no key is stored.
	ErrItemNotFound = errors.New("credential: item not found")
	// ErrDuplicateItem is returned when adding a key that already exists.
	ErrDuplicateItem = errors.New("credential: duplicate item")
	// ErrEmptySecret is returned when saving an empty key.
	ErrEmptySecret = errors.New("credential: secret is empty")
)

// UnexpectedStatusError wraps a backend failure that is neither
// "not found" nor "duplicate".
type UnexpectedStatusError struct {
	Op   string
	Code int // -1 when the backend reports no numeric status
	Err  error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("credential %s: unexpected status %d: %v", e.Op, e.Code, e.Err)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

func unexpected(op string, err error) error {
	code := -1
	var errno syscall.Errno
	if errors.As(err, &errno) {
		code = int(errno)
	}
	return &UnexpectedStatusError{Op: op, Code: code, Err: err}
}

// Store holds at most one secret.
type Store interface {
	// Save replaces any stored secret with secret.
	Save(secret string) error
	// Get returns the stored secret or ErrItemNotFound.
	Get() (string, error)
	// Delete removes the stored secret. Deleting nothing is not an error.
	Delete() error
	// Exists reports whether a secret can currently be read.
	Exists() bool
}

// New returns the Store for the configured backend.
func New(backend, path string) (Store, error) {
	switch backend {
	case config.BackendKeyring, "":
		return NewKeyringStore(), nil
	case config.BackendFile:
		if path == "" {
			return nil, errors.New("credential: file backend needs a path")
		}
		return NewFileStore(path), nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("credential: unknown backend %q", backend)
	}
}

func normalizeSecret(secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", ErrEmptySecret
	}
	return secret, nil
}

func exists(s Store) bool {
	_, err := s.Get()
	return err == nil
}
