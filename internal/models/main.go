// Package models defines the core data structures for identities and notes.
package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Identity represents a registered user capable of owning notes and
// being granted access to them.
type Identity struct {
	// ID is the unique identifier for the identity.
	ID string `json:"id"`
	// Name is the display name chosen at registration.
	Name string `json:"name"`
	// Email is the unique login email, stored case-sensitively.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the identity's password.
	PasswordHash []byte `json:"-"`
	// CreatedAt is the registration timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// Status defines the set of valid note visibility levels.
type Status string

const (
	// StatusPrivate means only the owner may read the note.
	StatusPrivate Status = "private"
	// StatusShared means the owner and every email in SharedWith may read the note.
	StatusShared Status = "shared"
	// StatusPublic means anyone holding the public token may read the note.
	StatusPublic Status = "public"
)

// Valid reports whether s is one of the three known visibility levels.
func (s Status) Valid() bool {
	switch s {
	case StatusPrivate, StatusShared, StatusPublic:
		return true
	}
	return false
}

// EmailSet is a set of identity emails granted read access to a note.
// It marshals to and from a sorted JSON array.
type EmailSet map[string]struct{}

// Add inserts email into the set.
func (e EmailSet) Add(email string) { e[email] = struct{}{} }

// Remove deletes email from the set.
func (e EmailSet) Remove(email string) { delete(e, email) }

// Has reports whether email is in the set.
func (e EmailSet) Has(email string) bool {
	_, ok := e[email]
	return ok
}

// Clone returns an independent copy of the set.
func (e EmailSet) Clone() EmailSet {
	out := make(EmailSet, len(e))
	for k := range e {
		out[k] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array of emails.
func (e EmailSet) MarshalJSON() ([]byte, error) {
	emails := make([]string, 0, len(e))
	for k := range e {
		emails = append(emails, k)
	}
	sort.Strings(emails)
	return json.Marshal(emails)
}

// UnmarshalJSON decodes an array of emails into the set.
func (e *EmailSet) UnmarshalJSON(data []byte) error {
	var emails []string
	if err := json.Unmarshal(data, &emails); err != nil {
		return err
	}
	*e = make(EmailSet, len(emails))
	for _, email := range emails {
		(*e)[email] = struct{}{}
	}
	return nil
}

// Note is a text document owned by exactly one identity. Its Status
// governs who may read it; only the owner may ever mutate or delete it.
type Note struct {
	// ID is the unique identifier for the note, assigned at creation.
	ID string `json:"id"`
	// OwnerID is the identity that created the note. Ownership never transfers.
	OwnerID string `json:"ownerId"`
	// OwnerName is the display name of the owner, denormalized for display.
	OwnerName string `json:"ownerName"`
	// Title is the note's title.
	Title string `json:"title"`
	// Content is the note's body text (markdown).
	Content string `json:"content"`
	// Tags is an ordered list of labels attached to the note.
	Tags []string `json:"tags"`
	// Status is the current visibility level.
	Status Status `json:"status"`
	// SharedWith holds the emails granted read access while Status is shared.
	// It is not cleared when the status moves away from shared, but it is
	// only consulted while the status is shared.
	SharedWith EmailSet `json:"sharedWith"`
	// PublicToken is the unguessable public-link token. It is non-empty
	// exactly when Status is public.
	PublicToken string `json:"publicToken,omitempty"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is restamped on every mutation and never moves backwards.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the note so callers can hand copies
// across goroutines without sharing the tag slice or shared-with set.
func (n *Note) Clone() *Note {
	out := *n
	if n.Tags != nil {
		out.Tags = append([]string(nil), n.Tags...)
	}
	out.SharedWith = n.SharedWith.Clone()
	return &out
}

// Touch restamps UpdatedAt, keeping it monotonically non-decreasing.
func (n *Note) Touch() {
	if now := time.Now().UTC(); now.After(n.UpdatedAt) {
		n.UpdatedAt = now
	}
}

// Requester is the principal attached to a request: either an
// authenticated identity or anonymous.
type Requester struct {
	identity *Identity
}

// Anonymous returns a requester carrying no identity.
func Anonymous() Requester { return Requester{} }

// Authenticated returns a requester carrying the given identity.
func Authenticated(identity Identity) Requester {
	return Requester{identity: &identity}
}

// Identity returns the requester's identity and true when authenticated,
// or a zero identity and false when anonymous.
func (r Requester) Identity() (Identity, bool) {
	if r.identity == nil {
		return Identity{}, false
	}
	return *r.identity, true
}
