package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/noteshare/internal/models"
	"github.com/avoronin/noteshare/internal/repository"
	"github.com/avoronin/noteshare/internal/service"
)

// fixture wires a NoteService over real in-memory stores with two
// registered identities.
type fixture struct {
	notes *service.NoteService
	u1    models.Identity
	u2    models.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	identities := repository.NewIdentityStore()
	auth := service.NewAuthService(identities, []byte("test-secret"), time.Hour)

	u1, _, err := auth.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)
	u2, _, err := auth.Register(ctx, "Bob", "b@x.com", "secret2")
	require.NoError(t, err)

	return &fixture{
		notes: service.NewNoteService(repository.NewNoteStore(), auth),
		u1:    *u1,
		u2:    *u2,
	}
}

func (f *fixture) create(t *testing.T, status models.Status) *models.Note {
	t.Helper()
	n, err := f.notes.CreateNote(context.Background(), f.u1, service.CreateNoteInput{
		Title:   "groceries",
		Content: "milk and eggs",
		Tags:    []string{"home"},
		Status:  status,
	})
	require.NoError(t, err)
	return n
}

func TestCreateNote_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.notes.CreateNote(ctx, f.u1, service.CreateNoteInput{Title: "", Content: "c"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.notes.CreateNote(ctx, f.u1, service.CreateNoteInput{Title: "t", Content: ""})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.notes.CreateNote(ctx, f.u1, service.CreateNoteInput{Title: "t", Content: "c", Status: "bogus"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateNote_DefaultsToPrivate(t *testing.T) {
	f := newFixture(t)
	n := f.create(t, "")
	assert.Equal(t, models.StatusPrivate, n.Status)
	assert.Empty(t, n.PublicToken)
}

// A private note is readable by its owner and nobody else.
func TestGetNote_PrivateDeniesNonOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	got, err := f.notes.GetNote(ctx, models.Authenticated(f.u1), n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)

	_, err = f.notes.GetNote(ctx, models.Authenticated(f.u2), n.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.notes.GetNote(ctx, models.Anonymous(), n.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestGetNote_Missing(t *testing.T) {
	f := newFixture(t)
	_, err := f.notes.GetNote(context.Background(), models.Authenticated(f.u1), "missing")
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

// Publish issues a token that resolves anonymously; unpublish kills it.
func TestPublishUnpublishRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	published, err := f.notes.Publish(ctx, f.u1, n.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPublic, published.Status)
	require.NotEmpty(t, published.PublicToken)

	got, err := f.notes.GetPublicNote(ctx, published.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)

	unpublished, err := f.notes.Unpublish(ctx, f.u1, n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPrivate, unpublished.Status)
	assert.Empty(t, unpublished.PublicToken)

	_, err = f.notes.GetPublicNote(ctx, published.PublicToken)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

// Publishing twice replaces the token; the first stops resolving.
func TestPublishTwiceInvalidatesFirstToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	first, err := f.notes.Publish(ctx, f.u1, n.ID)
	require.NoError(t, err)
	second, err := f.notes.Publish(ctx, f.u1, n.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.PublicToken, second.PublicToken)

	_, err = f.notes.GetPublicNote(ctx, first.PublicToken)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)

	got, err := f.notes.GetPublicNote(ctx, second.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)
}

func TestPublish_NonOwnerForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	_, err := f.notes.Publish(ctx, f.u2, n.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// The failed attempt must not have touched the note.
	got, err := f.notes.GetNote(ctx, models.Authenticated(f.u1), n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPrivate, got.Status)
	assert.Empty(t, got.PublicToken)
}

// Share round trip: grant makes the note shared and readable by the
// grantee; revoking the last grant reverts to private.
func TestShareRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	shared, err := f.notes.AddShare(ctx, f.u1, n.ID, f.u2.Email)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShared, shared.Status)
	assert.True(t, shared.SharedWith.Has(f.u2.Email))

	got, err := f.notes.GetNote(ctx, models.Authenticated(f.u2), n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)

	reverted, err := f.notes.RemoveShare(ctx, f.u1, n.ID, f.u2.Email)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPrivate, reverted.Status)

	_, err = f.notes.GetNote(ctx, models.Authenticated(f.u2), n.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestAddShare_UnknownIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	_, err := f.notes.AddShare(ctx, f.u1, n.ID, "ghost@x.com")
	assert.ErrorIs(t, err, models.ErrIdentityNotFound)

	// Note unchanged.
	got, err := f.notes.GetNote(ctx, models.Authenticated(f.u1), n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPrivate, got.Status)
	assert.False(t, got.SharedWith.Has("ghost@x.com"))
}

func TestAddShare_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	_, err := f.notes.AddShare(ctx, f.u1, n.ID, f.u2.Email)
	require.NoError(t, err)
	_, err = f.notes.AddShare(ctx, f.u1, n.ID, f.u2.Email)
	assert.ErrorIs(t, err, models.ErrAlreadyShared)
}

// RemoveShare with an email never granted leaves the note unchanged
// apart from an identical status recomputation.
func TestRemoveShare_UnknownEmailIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)
	_, err := f.notes.AddShare(ctx, f.u1, n.ID, f.u2.Email)
	require.NoError(t, err)

	got, err := f.notes.RemoveShare(ctx, f.u1, n.ID, "ghost@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShared, got.Status)
	assert.True(t, got.SharedWith.Has(f.u2.Email))
}

// Sharing a public note demotes it to shared; its stale token must not
// resolve, and no new token is minted.
func TestAddShare_DemotesPublicNote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	published, err := f.notes.Publish(ctx, f.u1, n.ID)
	require.NoError(t, err)

	shared, err := f.notes.AddShare(ctx, f.u1, n.ID, f.u2.Email)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShared, shared.Status)

	_, err = f.notes.GetPublicNote(ctx, published.PublicToken)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

// Empty title or content in an update keeps the previous value.
func TestUpdateNote_EmptyFieldsKeepPrevious(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	got, err := f.notes.UpdateNote(ctx, f.u1, n.ID, service.UpdateNoteInput{Title: "", Content: "new content"})
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Title)
	assert.Equal(t, "new content", got.Content)
}

func TestUpdateNote_NonOwnerForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	_, err := f.notes.UpdateNote(ctx, f.u2, n.ID, service.UpdateNoteInput{Title: "hijacked"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateNote_RestampsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	got, err := f.notes.UpdateNote(ctx, f.u1, n.ID, service.UpdateNoteInput{Title: "x"})
	require.NoError(t, err)
	assert.False(t, got.UpdatedAt.Before(n.UpdatedAt))
}

// Two racing updates touching different fields both land.
func TestUpdateNote_ConcurrentEditsBothLand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.notes.UpdateNote(ctx, f.u1, n.ID, service.UpdateNoteInput{Title: "race title"})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := f.notes.UpdateNote(ctx, f.u1, n.ID, service.UpdateNoteInput{Tags: []string{"race", "tags"}})
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err := f.notes.GetNote(ctx, models.Authenticated(f.u1), n.ID)
	require.NoError(t, err)
	assert.Equal(t, "race title", got.Title)
	assert.Equal(t, []string{"race", "tags"}, got.Tags)
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.create(t, models.StatusPrivate)
	published, err := f.notes.Publish(ctx, f.u1, n.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.notes.DeleteNote(ctx, f.u2, n.ID), models.ErrForbidden)

	require.NoError(t, f.notes.DeleteNote(ctx, f.u1, n.ID))

	_, err = f.notes.GetNote(ctx, models.Authenticated(f.u1), n.ID)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
	_, err = f.notes.GetPublicNote(ctx, published.PublicToken)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mk := func(owner models.Identity, title, content string, tags []string) *models.Note {
		n, err := f.notes.CreateNote(ctx, owner, service.CreateNoteInput{
			Title: title, Content: content, Tags: tags,
		})
		require.NoError(t, err)
		return n
	}

	mine := mk(f.u1, "Meeting notes", "quarterly planning", []string{"work"})
	mk(f.u1, "Garden plan", "tomatoes and basil", []string{"home"})
	theirs := mk(f.u2, "Bob's list", "shared shopping TRip", []string{"errands"})
	mk(f.u2, "Bob's diary", "private thoughts", nil)

	_, err := f.notes.AddShare(ctx, f.u2, theirs.ID, f.u1.Email)
	require.NoError(t, err)

	// Owned plus shared-with-me.
	out, err := f.notes.ListNotes(ctx, f.u1, service.ListFilter{})
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Ordered by UpdatedAt descending: the share restamped theirs.
	assert.Equal(t, theirs.ID, out[0].ID)

	// Case-insensitive substring search across title, content, tags.
	out, err = f.notes.ListNotes(ctx, f.u1, service.ListFilter{Search: "trip"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, theirs.ID, out[0].ID)

	out, err = f.notes.ListNotes(ctx, f.u1, service.ListFilter{Search: "WORK"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, mine.ID, out[0].ID)

	// Status filter.
	out, err = f.notes.ListNotes(ctx, f.u1, service.ListFilter{Status: models.StatusShared})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, theirs.ID, out[0].ID)

	// Bob's private diary never shows up for Alice.
	out, err = f.notes.ListNotes(ctx, f.u1, service.ListFilter{Search: "diary"})
	require.NoError(t, err)
	assert.Empty(t, out)
}
