package credential

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps the key in the OS secret store (macOS Keychain,
// Secret Service on Linux, Windows Credential Manager).
type KeyringStore struct {
	service string
	account string
}

// NewKeyringStore returns a store using the fixed service/account pair.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: Service, account: Account}
}

// Save deletes any existing item and then adds the new one. A failed delete
// is not reported; the add classifies the failure.
func (s *KeyringStore) Save(secret string) error {
	secret, err := normalizeSecret(secret)
	if err != nil {
		return err
	}
	_ = s.Delete()
	if err := keyring.Set(s.service, s.account, secret); err != nil {
		return unexpected("save", err)
	}
	return nil
}

// Get returns the stored key.
func (s *KeyringStore) Get() (string, error) {
	secret, err := keyring.Get(s.service, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrItemNotFound
		}
		return "", unexpected("get", err)
	}
	if secret == "" {
		return "", ErrItemNotFound
	}
	return secret, nil
}

// Delete removes the stored key.
func (s *KeyringStore) Delete() error {
	if err := keyring.Delete(s.service, s.account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return unexpected("delete", err)
	}
	return nil
}

// Exists reports whether a key is stored.
func (s *KeyringStore) Exists() bool {
	return exists(s)
}
