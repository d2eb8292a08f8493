package repository

import (
	"context"
	"sync"

	"github.com/avoronin/noteshare/internal/models"
)

// IdentityStore is an in-memory identity directory indexed by id and by
// email. Emails are unique and compared case-sensitively as stored.
type IdentityStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.Identity
	byEmail map[string]string // email -> identity id
}

// NewIdentityStore creates an empty identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		byID:    make(map[string]*models.Identity),
		byEmail: make(map[string]string),
	}
}

// Create stores a new identity. It returns models.ErrEmailTaken when an
// identity with the same email already exists.
func (s *IdentityStore) Create(ctx context.Context, ident *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[ident.Email]; ok {
		return models.ErrEmailTaken
	}
	stored := *ident
	s.byID[stored.ID] = &stored
	s.byEmail[stored.Email] = stored.ID
	return nil
}

// FindByEmail returns the identity registered under email, or
// models.ErrIdentityNotFound.
func (s *IdentityStore) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, models.ErrIdentityNotFound
	}
	ident := *s.byID[id]
	return &ident, nil
}

// FindByID returns the identity with the given id, or
// models.ErrIdentityNotFound.
func (s *IdentityStore) FindByID(ctx context.Context, id string) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ident, ok := s.byID[id]
	if !ok {
		return nil, models.ErrIdentityNotFound
	}
	out := *ident
	return &out, nil
}
