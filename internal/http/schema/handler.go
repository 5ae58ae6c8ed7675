package schema

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	"github.com/MrJamesThe3rd/penny/internal/http/respond"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

type Handler struct {
	svc *schema.Service
}

func NewHandler(svc *schema.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/date-formats", h.dateFormats)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/clone", h.clone)
}

type schemaRequest struct {
	Name                 string           `json:"name"`
	TransactionDataStart int              `json:"transaction_data_start"`
	DateColumn           int              `json:"date_column"`
	BalanceColumn        int              `json:"balance_column"`
	AmountColumn         int              `json:"amount_column"`
	PaidInColumn         int              `json:"paid_in_column"`
	PaidOutColumn        int              `json:"paid_out_column"`
	DescriptionColumn    int              `json:"description_column"`
	DateFormat           dateparse.Format `json:"date_format"`
}

// ToSchema builds an unsaved schema for userID. The import handler reuses it
// for inline schemas.
func (req schemaRequest) ToSchema(userID uuid.UUID) schema.Schema {
	return schema.Schema{
		UserID:               userID,
		Name:                 req.Name,
		TransactionDataStart: req.TransactionDataStart,
		DateColumn:           req.DateColumn,
		BalanceColumn:        req.BalanceColumn,
		AmountColumn:         req.AmountColumn,
		PaidInColumn:         req.PaidInColumn,
		PaidOutColumn:        req.PaidOutColumn,
		DescriptionColumn:    req.DescriptionColumn,
		DateFormat:           req.DateFormat,
	}
}

// DecodeInline parses a schema sent as JSON alongside an upload.
func DecodeInline(raw string, userID uuid.UUID) (schema.Schema, error) {
	var req schemaRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return schema.Schema{}, err
	}

	return req.ToSchema(userID), nil
}

type schemaResponse struct {
	ID                   uuid.UUID            `json:"id"`
	Name                 string               `json:"name"`
	TransactionDataStart int                  `json:"transaction_data_start"`
	DateColumn           int                  `json:"date_column"`
	BalanceColumn        int                  `json:"balance_column"`
	AmountColumn         int                  `json:"amount_column"`
	PaidInColumn         int                  `json:"paid_in_column"`
	PaidOutColumn        int                  `json:"paid_out_column"`
	DescriptionColumn    int                  `json:"description_column"`
	DateFormat           dateparse.Format     `json:"date_format,omitempty"`
	ColumnMapping        map[schema.Field]int `json:"column_mapping"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            *time.Time           `json:"updated_at,omitempty"`
}

func toResponse(sc *schema.Schema) schemaResponse {
	return schemaResponse{
		ID:                   sc.ID,
		Name:                 sc.Name,
		TransactionDataStart: sc.TransactionDataStart,
		DateColumn:           sc.DateColumn,
		BalanceColumn:        sc.BalanceColumn,
		AmountColumn:         sc.AmountColumn,
		PaidInColumn:         sc.PaidInColumn,
		PaidOutColumn:        sc.PaidOutColumn,
		DescriptionColumn:    sc.DescriptionColumn,
		DateFormat:           sc.DateFormat,
		ColumnMapping:        sc.ColumnMapping(),
		CreatedAt:            sc.CreatedAt,
		UpdatedAt:            sc.UpdatedAt,
	}
}

// WriteError maps schema errors onto status codes.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *schema.ValidationError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Message, http.StatusUnprocessableEntity)
	case errors.Is(err, schema.ErrNotFound):
		http.Error(w, "schema not found", http.StatusNotFound)
	case errors.Is(err, schema.ErrNameTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		respond.Internal(w, r, err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	schemas, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	resp := make([]schemaResponse, len(schemas))
	for i, sc := range schemas {
		resp[i] = toResponse(sc)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var req schemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	sc := req.ToSchema(userID)
	if err := h.svc.Create(r.Context(), &sc); err != nil {
		WriteError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(&sc))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	sc, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(sc))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req schemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sc := req.ToSchema(userID)
	sc.ID = id

	if err := h.svc.Update(r.Context(), &sc); err != nil {
		WriteError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(&sc))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type cloneRequest struct {
	Name string `json:"name"`
}

func (h *Handler) clone(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	// The body is optional; an empty one picks a "(copy)" name.
	var req cloneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sc, err := h.svc.Clone(r.Context(), userID, id, req.Name)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(sc))
}

func (h *Handler) dateFormats(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, dateparse.Formats())
}
