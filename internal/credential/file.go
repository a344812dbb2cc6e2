package credential

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps the key in a single file readable only by the owner.
// It is meant for headless machines without a secret service.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Save removes any stored file and then creates it with secret.
func (s *FileStore) Save(secret string) error {
	secret, err := normalizeSecret(secret)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A leftover file that could not be removed surfaces as ErrDuplicateItem.
	_ = s.deleteLocked()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return unexpected("save", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrDuplicateItem
		}
		return unexpected("save", err)
	}
	if _, err := f.WriteString(secret); err != nil {
		_ = f.Close()
		return unexpected("save", err)
	}
	if err := f.Close(); err != nil {
		return unexpected("save", err)
	}
	return nil
}

// Get reads the stored key.
func (s *FileStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrItemNotFound
		}
		return "", unexpected("get", err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", ErrItemNotFound
	}
	return secret, nil
}

// Delete removes the file.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked()
}

func (s *FileStore) deleteLocked() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return unexpected("delete", err)
	}
	return nil
}

// Exists reports whether a key is stored.
func (s *FileStore) Exists() bool {
	return exists(s)
}
