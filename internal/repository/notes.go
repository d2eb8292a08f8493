// Package repository provides the process-local, concurrency-safe
// stores backing the note and identity services. State lives in memory
// only; a process restart loses everything.
package repository

import (
	"context"
	"sync"

	"github.com/avoronin/noteshare/internal/models"
)

// NoteStore is an in-memory note store keyed by note id, with a
// secondary index from public token to note id.
//
// A single RWMutex serializes all mutations, so an Update is an
// indivisible read-modify-write per note and readers never observe a
// partially applied change. Every value crossing the store boundary is
// cloned, in and out.
type NoteStore struct {
	mu     sync.RWMutex
	notes  map[string]*models.Note
	tokens map[string]string // public token -> note id
}

// NewNoteStore creates an empty note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes:  make(map[string]*models.Note),
		tokens: make(map[string]string),
	}
}

// Create stores a new note under its id.
func (s *NoteStore) Create(ctx context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := n.Clone()
	s.notes[stored.ID] = stored
	if stored.PublicToken != "" {
		s.tokens[stored.PublicToken] = stored.ID
	}
	return nil
}

// Get returns a copy of the note with the given id, or
// models.ErrNoteNotFound.
func (s *NoteStore) Get(ctx context.Context, id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, models.ErrNoteNotFound
	}
	return n.Clone(), nil
}

// GetByPublicToken resolves a public token to its note. A token hanging
// off a note whose status is no longer public does not resolve.
func (s *NoteStore) GetByPublicToken(ctx context.Context, token string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return nil, models.ErrNoteNotFound
	}
	n, ok := s.notes[id]
	if !ok || n.Status != models.StatusPublic || n.PublicToken != token {
		return nil, models.ErrNoteNotFound
	}
	return n.Clone(), nil
}

// Update applies mutate to the note with the given id as one atomic
// step and returns a copy of the result. The mutator runs on a private
// copy; an error from it aborts the update and leaves the stored note
// untouched. Two concurrent updates to the same note cannot interleave.
func (s *NoteStore) Update(ctx context.Context, id string, mutate func(*models.Note) error) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.notes[id]
	if !ok {
		return nil, models.ErrNoteNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}

	if current.PublicToken != next.PublicToken {
		if current.PublicToken != "" {
			delete(s.tokens, current.PublicToken)
		}
		if next.PublicToken != "" {
			s.tokens[next.PublicToken] = next.ID
		}
	}
	s.notes[id] = next
	return next.Clone(), nil
}

// Delete removes the note with the given id. Its id and public token
// stop resolving permanently.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return models.ErrNoteNotFound
	}
	if n.PublicToken != "" {
		delete(s.tokens, n.PublicToken)
	}
	delete(s.notes, id)
	return nil
}

// List returns copies of every note for which keep returns true, in
// unspecified order.
func (s *NoteStore) List(ctx context.Context, keep func(*models.Note) bool) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Note
	for _, n := range s.notes {
		if keep(n) {
			out = append(out, *n.Clone())
		}
	}
	return out, nil
}
