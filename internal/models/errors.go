package models

import "errors"

// Domain errors returned by repositories and services. Callers match
// them with errors.Is; transport layers map them to status codes.
var (
	// ErrUnauthenticated means the operation requires an identity and
	// none (or an invalid bearer token) was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the resolved identity lacks permission for the
	// target note.
	ErrForbidden = errors.New("access denied")
	// ErrNoteNotFound means the note id or public token does not resolve.
	ErrNoteNotFound = errors.New("note not found")
	// ErrIdentityNotFound means no identity matches the given email or id.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrEmailTaken means an identity with the given email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials means the email/password pair did not verify.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrValidation means a request field failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyShared means the email is already in the note's sharing list.
	ErrAlreadyShared = errors.New("note already shared with this identity")
)
