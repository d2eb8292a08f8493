package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avoronin/noteshare/internal/models"
)

// PublicNoteService defines the anonymous public-token lookup required
// by the public handler.
type PublicNoteService interface {
	GetPublicNote(ctx context.Context, token string) (*models.Note, error)
}

// ContentRenderer renders note markdown for display.
type ContentRenderer interface {
	Render(markdown string) (string, error)
}

// PublicHandler serves anonymous reads of public notes. It exposes no
// mutation or sharing affordances: the response carries the note's
// content and metadata only.
type PublicHandler struct {
	NoteService PublicNoteService
	Renderer    ContentRenderer
}

// publicNote is the read-only projection of a note returned to
// anonymous callers. The sharing list is deliberately absent.
type publicNote struct {
	ID        string        `json:"id"`
	OwnerName string        `json:"ownerName"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Rendered  string        `json:"rendered,omitempty"`
	Tags      []string      `json:"tags"`
	Status    models.Status `json:"status"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

// Get handles GET /api/public/{token}. Tokens that do not resolve to a
// currently public note yield 404.
func (h *PublicHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.NoteService.GetPublicNote(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := publicNote{
		ID:        note.ID,
		OwnerName: note.OwnerName,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		Status:    note.Status,
		CreatedAt: note.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: note.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if h.Renderer != nil {
		if rendered, err := h.Renderer.Render(note.Content); err == nil {
			out.Rendered = rendered
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": out})
}
