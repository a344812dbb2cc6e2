package credential

import "sync"

// MemoryStore keeps the key in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	secret *string

	// Fail, when set, is returned by every operation.
	Fail error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save deletes and then adds secret.
func (s *MemoryStore) Save(secret string) error {
	secret, err := normalizeSecret(secret)
	if err != nil {
		return err
	}
	_ = s.Delete()
	return s.add(secret)
}

func (s *MemoryStore) add(secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return unexpected("save", s.Fail)
	}
	if s.secret != nil {
		return ErrDuplicateItem
	}
	s.secret = &secret
	return nil
}

// Get returns the stored key.
func (s *MemoryStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return "", unexpected("get", s.Fail)
	}
	if s.secret == nil {
		return "", ErrItemNotFound
	}
	return *s.secret, nil
}

// Delete forgets the stored key.
func (s *MemoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return unexpected("delete", s.Fail)
	}
	s.secret = nil
	return nil
}

// Exists reports whether a key is stored.
func (s *MemoryStore) Exists() bool {
	return exists(s)
}
