// Package visibility implements the note visibility state machine:
// the legal transitions among private, shared, and public, and the
// public-token bookkeeping each transition requires.
//
// The package mutates notes in place and never touches storage; callers
// run these transitions inside an atomic repository update.
package visibility

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/avoronin/noteshare/internal/models"
)

// mintToken issues a fresh unguessable public-link token. UUIDv4 gives
// process-lifetime uniqueness across all notes.
func mintToken() string { return uuid.NewString() }

// NewNote builds a note owned by owner with the given initial status.
// A public initial status mints a public token immediately.
func NewNote(owner models.Identity, title, content string, tags []string, status models.Status) *models.Note {
	n := &models.Note{
		ID:         uuid.NewString(),
		OwnerID:    owner.ID,
		OwnerName:  owner.Name,
		Title:      title,
		Content:    content,
		Tags:       tags,
		Status:     status,
		SharedWith: models.EmailSet{},
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Status == models.StatusPublic {
		n.PublicToken = mintToken()
	}
	n.Touch()
	n.CreatedAt = n.UpdatedAt
	return n
}

// Publish moves the note to public and mints a new token. Publishing an
// already-public note replaces its token, so the previous public link
// stops resolving.
func Publish(n *models.Note) {
	n.Status = models.StatusPublic
	n.PublicToken = mintToken()
	n.Touch()
}

// Unpublish withdraws the public link. The note falls back to shared
// when its sharing list is non-empty, otherwise to private.
func Unpublish(n *models.Note) {
	n.PublicToken = ""
	if len(n.SharedWith) > 0 {
		n.Status = models.StatusShared
	} else {
		n.Status = models.StatusPrivate
	}
	n.Touch()
}

// AddShare grants email read access and moves the note to shared. A
// public note is demoted to shared; its token field is left in place
// but becomes inert, since public lookups require a public status.
func AddShare(n *models.Note, email string) error {
	if n.SharedWith.Has(email) {
		return models.ErrAlreadyShared
	}
	n.SharedWith.Add(email)
	n.Status = models.StatusShared
	n.Touch()
	return nil
}

// RemoveShare revokes email's read access. Removing an email that was
// never granted is a no-op apart from the status recomputation. The
// note stays shared while other grants remain, otherwise goes private.
func RemoveShare(n *models.Note, email string) {
	n.SharedWith.Remove(email)
	if len(n.SharedWith) > 0 {
		n.Status = models.StatusShared
	} else {
		n.Status = models.StatusPrivate
	}
	n.Touch()
}

// Edit carries replacement values for an update. Empty Title, Content,
// and Status mean "keep the previous value"; an empty string cannot
// clear either field through this path. A nil Tags slice means keep,
// while an empty non-nil slice clears the tags.
type Edit struct {
	Title   string
	Content string
	Tags    []string
	Status  models.Status
}

// ApplyEdit replaces the note's editable fields per e. A status change
// through an edit keeps the token invariant: entering public mints a
// token only when none exists, and leaving public clears it.
func ApplyEdit(n *models.Note, e Edit) error {
	if e.Status != "" && !e.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, e.Status)
	}
	if e.Title != "" {
		n.Title = e.Title
	}
	if e.Content != "" {
		n.Content = e.Content
	}
	if e.Tags != nil {
		n.Tags = append([]string(nil), e.Tags...)
	}
	if e.Status != "" {
		n.Status = e.Status
	}
	if n.Status == models.StatusPublic {
		if n.PublicToken == "" {
			n.PublicToken = mintToken()
		}
	} else {
		n.PublicToken = ""
	}
	n.Touch()
	return nil
}
