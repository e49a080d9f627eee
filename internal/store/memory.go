package store

import "sync"

// MemStore keeps the document in memory only. It backs tests and ephemeral
// runs; the contract matches FileStore minus durability.
type MemStore struct {
	mu   sync.Mutex
	data Data
}

func NewMemStore() *MemStore {
	return &MemStore{data: emptyData()}
}

func (s *MemStore) View(fn func(d *Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

func (s *MemStore) Update(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.data = next
	return nil
}
