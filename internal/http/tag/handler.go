package tag

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	"github.com/MrJamesThe3rd/penny/internal/http/respond"
	"github.com/MrJamesThe3rd/penny/internal/tag"
)

type Handler struct {
	svc *tag.Service
}

func NewHandler(svc *tag.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

type tagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	tags, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	resp := make([]tagResponse, len(tags))
	for i, t := range tags {
		resp[i] = tagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createTagRequest struct {
	Name string `json:"name"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	t, err := h.svc.Create(r.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, tag.ErrNameTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		respond.Internal(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, tagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt})
}
