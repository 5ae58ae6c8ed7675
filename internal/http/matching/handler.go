package matching

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	"github.com/MrJamesThe3rd/penny/internal/http/respond"
	"github.com/MrJamesThe3rd/penny/internal/matching"
	"github.com/MrJamesThe3rd/penny/internal/tag"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description string      `json:"description"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	desc := r.URL.Query().Get("description")
	if desc == "" {
		http.Error(w, "description query parameter is required", http.StatusBadRequest)
		return
	}

	tagIDs, err := h.svc.Suggest(r.Context(), userID, desc)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Description: desc, TagIDs: tagIDs})
}

type learnRequest struct {
	Pattern string    `json:"pattern"`
	TagID   uuid.UUID `json:"tag_id"`
}

type ruleResponse struct {
	ID      uuid.UUID `json:"id"`
	Pattern string    `json:"pattern"`
	TagID   uuid.UUID `json:"tag_id"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.TagID == uuid.Nil {
		http.Error(w, "pattern and tag_id are required", http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Learn(r.Context(), userID, req.Pattern, req.TagID)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrEmptyPattern):
			http.Error(w, "pattern and tag_id are required", http.StatusBadRequest)
		case errors.Is(err, tag.ErrNotOwned):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			respond.Internal(w, r, err)
		}

		return
	}

	respond.JSON(w, http.StatusCreated, ruleResponse{ID: rule.ID, Pattern: rule.Pattern, TagID: rule.TagID})
}
