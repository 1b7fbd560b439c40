package services

import "sync"

// SessionStore хранит идентификатор текущей сессии чата клиента
type SessionStore interface {
	Get() string
	Set(id string)
	Clear()
}

type MemorySessionStore struct {
	mu sync.Mutex
	id string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *MemorySessionStore) Set(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

func (s *MemorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
}
