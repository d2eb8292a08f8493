package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avoronin/noteshare/internal/access"
	"github.com/avoronin/noteshare/internal/models"
	"github.com/avoronin/noteshare/internal/visibility"
)

// NoteRepository defines the persistence operations required by the
// NoteService.
type NoteRepository interface {
	// Create stores a new note.
	Create(ctx context.Context, n *models.Note) error
	// Get fetches a note by id; models.ErrNoteNotFound if absent.
	Get(ctx context.Context, id string) (*models.Note, error)
	// GetByPublicToken resolves a public token to a note whose status
	// is currently public; models.ErrNoteNotFound otherwise.
	GetByPublicToken(ctx context.Context, token string) (*models.Note, error)
	// Update atomically applies mutate to the note with the given id
	// and returns the result. An error from mutate aborts the update.
	Update(ctx context.Context, id string, mutate func(*models.Note) error) (*models.Note, error)
	// Delete removes a note by id.
	Delete(ctx context.Context, id string) error
	// List returns every note for which keep returns true.
	List(ctx context.Context, keep func(*models.Note) bool) ([]models.Note, error)
}

// IdentityDirectory is the slice of the identity service the
// NoteService needs: resolving share-target emails.
type IdentityDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
}

// NoteService orchestrates repository access, authorization, and the
// visibility state machine for every note operation.
type NoteService struct {
	notes     NoteRepository
	directory IdentityDirectory
}

// NewNoteService constructs a NoteService over the given repository and
// identity directory.
func NewNoteService(notes NoteRepository, directory IdentityDirectory) *NoteService {
	return &NoteService{notes: notes, directory: directory}
}

// CreateNoteInput carries the fields for a new note.
type CreateNoteInput struct {
	Title   string
	Content string
	Tags    []string
	Status  models.Status
}

// CreateNote creates a note owned by owner. Title and content are
// required; the status defaults to private.
func (s *NoteService) CreateNote(ctx context.Context, owner models.Identity, in CreateNoteInput) (*models.Note, error) {
	if in.Title == "" || in.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", models.ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = models.StatusPrivate
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, in.Status)
	}

	n := visibility.NewNote(owner, in.Title, in.Content, in.Tags, status)
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// GetNote fetches a note by id on behalf of requester, applying the
// id-keyed read rules.
func (s *NoteService) GetNote(ctx context.Context, requester models.Requester, id string) (*models.Note, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Can(requester, access.Read, n); err != nil {
		return nil, err
	}
	return n, nil
}

// GetPublicNote fetches a note by its public token. The path is open to
// anonymous callers and only resolves notes whose status is public.
func (s *NoteService) GetPublicNote(ctx context.Context, token string) (*models.Note, error) {
	return s.notes.GetByPublicToken(ctx, token)
}

// UpdateNoteInput carries replacement values for an update. Empty
// strings leave the previous value in place; a nil Tags slice leaves
// the tags, while an empty non-nil slice clears them.
type UpdateNoteInput struct {
	Title   string
	Content string
	Tags    []string
	Status  models.Status
}

// UpdateNote replaces the note's editable fields. Owner-only.
func (s *NoteService) UpdateNote(ctx context.Context, ident models.Identity, id string, in UpdateNoteInput) (*models.Note, error) {
	return s.notes.Update(ctx, id, func(n *models.Note) error {
		if err := access.Can(models.Authenticated(ident), access.Write, n); err != nil {
			return err
		}
		return visibility.ApplyEdit(n, visibility.Edit{
			Title:   in.Title,
			Content: in.Content,
			Tags:    in.Tags,
			Status:  in.Status,
		})
	})
}

// DeleteNote removes the note. Owner-only; the note's id and public
// token stop resolving permanently.
func (s *NoteService) DeleteNote(ctx context.Context, ident models.Identity, id string) error {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Can(models.Authenticated(ident), access.Write, n); err != nil {
		return err
	}
	return s.notes.Delete(ctx, id)
}

// Publish makes the note public under a freshly minted token.
// Owner-only. Publishing again replaces the token, so a previously
// issued public link stops resolving.
func (s *NoteService) Publish(ctx context.Context, ident models.Identity, id string) (*models.Note, error) {
	return s.notes.Update(ctx, id, func(n *models.Note) error {
		if err := access.Can(models.Authenticated(ident), access.AdministerSharing, n); err != nil {
			return err
		}
		visibility.Publish(n)
		return nil
	})
}

// Unpublish withdraws the note's public link. Owner-only.
func (s *NoteService) Unpublish(ctx context.Context, ident models.Identity, id string) (*models.Note, error) {
	return s.notes.Update(ctx, id, func(n *models.Note) error {
		if err := access.Can(models.Authenticated(ident), access.AdministerSharing, n); err != nil {
			return err
		}
		visibility.Unpublish(n)
		return nil
	})
}

// AddShare grants email read access to the note. Owner-only. The email
// must belong to a registered identity and must not already be in the
// sharing list.
func (s *NoteService) AddShare(ctx context.Context, ident models.Identity, id, email string) (*models.Note, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrValidation)
	}
	return s.notes.Update(ctx, id, func(n *models.Note) error {
		if err := access.Can(models.Authenticated(ident), access.AdministerSharing, n); err != nil {
			return err
		}
		if _, err := s.directory.FindByEmail(ctx, email); err != nil {
			return fmt.Errorf("%w: no identity for %s", models.ErrIdentityNotFound, email)
		}
		return visibility.AddShare(n, email)
	})
}

// RemoveShare revokes email's read access to the note. Owner-only.
func (s *NoteService) RemoveShare(ctx context.Context, ident models.Identity, id, email string) (*models.Note, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrValidation)
	}
	return s.notes.Update(ctx, id, func(n *models.Note) error {
		if err := access.Can(models.Authenticated(ident), access.AdministerSharing, n); err != nil {
			return err
		}
		visibility.RemoveShare(n, email)
		return nil
	})
}

// ListFilter narrows a note listing.
type ListFilter struct {
	// Search, when non-empty, keeps notes whose title, content, or any
	// tag contains it, case-insensitively.
	Search string
	// Status, when non-empty, keeps notes with exactly that status.
	Status models.Status
}

// ListNotes returns every note ident owns or appears in the sharing
// list of, narrowed by filter and ordered by UpdatedAt descending.
func (s *NoteService) ListNotes(ctx context.Context, ident models.Identity, filter ListFilter) ([]models.Note, error) {
	search := strings.ToLower(filter.Search)
	out, err := s.notes.List(ctx, func(n *models.Note) bool {
		if n.OwnerID != ident.ID && !n.SharedWith.Has(ident.Email) {
			return false
		}
		if filter.Status != "" && n.Status != filter.Status {
			return false
		}
		return search == "" || matchesSearch(n, search)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// matchesSearch reports whether the lowercased needle occurs in the
// note's title, content, or any tag.
func matchesSearch(n *models.Note, needle string) bool {
	if strings.Contains(strings.ToLower(n.Title), needle) ||
		strings.Contains(strings.ToLower(n.Content), needle) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
