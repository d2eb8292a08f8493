package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avoronin/noteshare/internal/middleware"
	"github.com/avoronin/noteshare/internal/models"
	"github.com/avoronin/noteshare/internal/service"
)

// NoteService defines the note operations required by the HTTP
// handlers.
type NoteService interface {
	CreateNote(ctx context.Context, owner models.Identity, in service.CreateNoteInput) (*models.Note, error)
	GetNote(ctx context.Context, requester models.Requester, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, ident models.Identity, id string, in service.UpdateNoteInput) (*models.Note, error)
	DeleteNote(ctx context.Context, ident models.Identity, id string) error
	ListNotes(ctx context.Context, ident models.Identity, filter service.ListFilter) ([]models.Note, error)
	Publish(ctx context.Context, ident models.Identity, id string) (*models.Note, error)
	Unpublish(ctx context.Context, ident models.Identity, id string) (*models.Note, error)
	AddShare(ctx context.Context, ident models.Identity, id, email string) (*models.Note, error)
	RemoveShare(ctx context.Context, ident models.Identity, id, email string) (*models.Note, error)
}

// NotesHandler handles HTTP requests for note CRUD, listing, sharing,
// and publication.
type NotesHandler struct {
	// NoteService performs the underlying note operations.
	NoteService NoteService
}

// noteRequest is the JSON payload for create and update. Tags stays nil
// when absent from the body, which update treats as "no change".
type noteRequest struct {
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Tags    []string      `json:"tags"`
	Status  models.Status `json:"status"`
}

// shareRequest is the JSON payload for share add and remove.
type shareRequest struct {
	Email string `json:"email"`
}

// List handles GET /api/notes?search=&status=.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	filter := service.ListFilter{Search: r.URL.Query().Get("search")}
	if status := r.URL.Query().Get("status"); status != "" && status != "all" {
		filter.Status = models.Status(status)
	}

	notes, err := h.NoteService.ListNotes(r.Context(), ident, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// Create handles POST /api/notes.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	note, err := h.NoteService.CreateNote(r.Context(), ident, service.CreateNoteInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Status:  req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"note": note})
}

// Get handles GET /api/notes/{id}. The route runs behind OptionalAuth,
// so the requester may be anonymous.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	note, err := h.NoteService.GetNote(r.Context(), requester, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

// Update handles PUT /api/notes/{id}.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	note, err := h.NoteService.UpdateNote(r.Context(), ident, chi.URLParam(r, "id"), service.UpdateNoteInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Status:  req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

// Delete handles DELETE /api/notes/{id}.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	if err := h.NoteService.DeleteNote(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}

// Publish handles POST /api/notes/{id}/public. The response includes
// the public URL for the freshly minted token.
func (h *NotesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	note, err := h.NoteService.Publish(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"note":      note,
		"publicUrl": fmt.Sprintf("/public/%s", note.PublicToken),
	})
}

// Unpublish handles DELETE /api/notes/{id}/public.
func (h *NotesHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	note, err := h.NoteService.Unpublish(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

// AddShare handles POST /api/notes/{id}/share.
func (h *NotesHandler) AddShare(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	note, err := h.NoteService.AddShare(r.Context(), ident, chi.URLParam(r, "id"), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

// RemoveShare handles DELETE /api/notes/{id}/share.
func (h *NotesHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	note, err := h.NoteService.RemoveShare(r.Context(), ident, chi.URLParam(r, "id"), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}
