package memory

import (
	"context"
	"sync"

	"vetclinic-dashboard/internal/adapters/auth/local"
)

// UserStore guarda usuarios del provider local en memoria.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]local.User
}

func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]local.User)}
}

func (s *UserStore) CreateUser(ctx context.Context, u local.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return local.ErrUserExists
	}
	s.byEmail[u.Email] = u
	return nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (local.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return local.User{}, local.ErrUserNotFound
	}
	return u, nil
}
