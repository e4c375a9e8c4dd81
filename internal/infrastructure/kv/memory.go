package kv

import (
	"context"
	"sync"

	"github.com/ErlanBelekov/focusboard/internal/repository"
)

// MemoryStore keeps the token for the life of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

var _ repository.TokenStore = (*MemoryStore)(nil)
