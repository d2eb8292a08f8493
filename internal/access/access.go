// Package access decides whether a requester may perform an operation
// on a note. It is the single authorization gate for the id-keyed
// paths; the public-token lookup is a separate read-only path that
// never reaches these checks.
package access

import "github.com/avoronin/noteshare/internal/models"

// Operation is the kind of access being requested on a note.
type Operation int

const (
	// Read requests read access to the note's fields.
	Read Operation = iota
	// Write requests mutation of the note's fields or its deletion.
	Write
	// AdministerSharing requests mutation of the note's visibility or
	// sharing list.
	AdministerSharing
)

// Can returns nil when the requester may perform op on the note.
// It returns models.ErrUnauthenticated when an identity is required and
// absent, and models.ErrForbidden when the resolved identity lacks
// permission.
func Can(r models.Requester, op Operation, n *models.Note) error {
	ident, ok := r.Identity()

	if op == Write || op == AdministerSharing {
		if !ok {
			return models.ErrUnauthenticated
		}
		if ident.ID != n.OwnerID {
			return models.ErrForbidden
		}
		return nil
	}

	// Read via the id-keyed path.
	switch n.Status {
	case models.StatusShared:
		if ok && (ident.ID == n.OwnerID || n.SharedWith.Has(ident.Email)) {
			return nil
		}
	default:
		// Private notes are owner-only. Public notes are open through
		// the token path only; the id-keyed path holds them to the
		// owner-only rule.
		if ok && ident.ID == n.OwnerID {
			return nil
		}
	}
	return models.ErrForbidden
}
