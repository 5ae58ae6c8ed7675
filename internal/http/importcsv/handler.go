package importcsv

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/account"
	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	"github.com/MrJamesThe3rd/penny/internal/http/respond"
	schemaHandler "github.com/MrJamesThe3rd/penny/internal/http/schema"
	"github.com/MrJamesThe3rd/penny/internal/importer"
	"github.com/MrJamesThe3rd/penny/internal/importer/csvreader"
	"github.com/MrJamesThe3rd/penny/internal/importer/profile"
	"github.com/MrJamesThe3rd/penny/internal/schema"
	"github.com/MrJamesThe3rd/penny/internal/tag"
)

type Options struct {
	MaxUploadBytes int64
	PreviewRows    int
}

type Handler struct {
	importSvc *importer.Service
	schemaSvc *schema.Service
	opts      Options
}

func NewHandler(importSvc *importer.Service, schemaSvc *schema.Service, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}

	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 20
	}

	return &Handler{
		importSvc: importSvc,
		schemaSvc: schemaSvc,
		opts:      opts,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/inspect", h.inspect)
	r.Post("/preview", h.preview)
	r.Post("/confirm", h.confirm)
	r.Get("/{id}", h.get)
}

type inspectResponse struct {
	Filename            string                   `json:"filename"`
	Headers             []string                 `json:"headers"`
	Rows                [][]string               `json:"rows"`
	TotalRows           int                      `json:"total_rows"`
	Charset             string                   `json:"charset"`
	Delimiter           string                   `json:"delimiter"`
	DetectedDateFormats map[int]dateparse.Format `json:"detected_date_formats"`
	SuggestedSchema     *suggestionResponse      `json:"suggested_schema,omitempty"`
}

// suggestionResponse carries the same column fields a schema create request
// takes, so clients can post it back as is.
type suggestionResponse struct {
	Profile              string           `json:"profile"`
	HeaderLine           int              `json:"header_line"`
	Name                 string           `json:"name"`
	TransactionDataStart int              `json:"transaction_data_start"`
	DateColumn           int              `json:"date_column"`
	BalanceColumn        int              `json:"balance_column"`
	AmountColumn         int              `json:"amount_column"`
	PaidInColumn         int              `json:"paid_in_column"`
	PaidOutColumn        int              `json:"paid_out_column"`
	DescriptionColumn    int              `json:"description_column"`
	DateFormat           dateparse.Format `json:"date_format,omitempty"`
}

func toSuggestion(m *profile.Match) *suggestionResponse {
	if m == nil {
		return nil
	}

	sc := m.Schema

	return &suggestionResponse{
		Profile:              m.Profile,
		HeaderLine:           m.HeaderLine,
		Name:                 sc.Name,
		TransactionDataStart: sc.TransactionDataStart,
		DateColumn:           sc.DateColumn,
		BalanceColumn:        sc.BalanceColumn,
		AmountColumn:         sc.AmountColumn,
		PaidInColumn:         sc.PaidInColumn,
		PaidOutColumn:        sc.PaidOutColumn,
		DescriptionColumn:    sc.DescriptionColumn,
		DateFormat:           sc.DateFormat,
	}
}

type importResponse struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	SchemaID      *uuid.UUID      `json:"schema_id,omitempty"`
	Filename      string          `json:"filename"`
	Status        importer.Status `json:"status"`
	TotalRows     int             `json:"total_rows"`
	ProcessedRows int             `json:"processed_rows"`
	ImportedRows  int             `json:"imported_rows"`
	DuplicateRows int             `json:"duplicate_rows"`
	ErrorMessage  *string         `json:"error_message,omitempty"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type importResultResponse struct {
	Import importResponse `json:"import"`
	Stats  importer.Stats `json:"stats"`
}

func toImportResult(imp *importer.Import) importResultResponse {
	return importResultResponse{
		Import: importResponse{
			ID:            imp.ID,
			AccountID:     imp.AccountID,
			SchemaID:      imp.SchemaID,
			Filename:      imp.Filename,
			Status:        imp.Status,
			TotalRows:     imp.TotalRows,
			ProcessedRows: imp.ProcessedRows,
			ImportedRows:  imp.ImportedRows,
			DuplicateRows: imp.DuplicateRows,
			ErrorMessage:  imp.ErrorMessage,
			StartedAt:     imp.StartedAt,
			CompletedAt:   imp.CompletedAt,
			CreatedAt:     imp.CreatedAt,
		},
		Stats: importer.ImportStats(imp),
	}
}

// upload reads the multipart "file" field, enforcing the size limit.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) (multipart.File, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return nil, "", false
		}

		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)

		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, "", false
	}

	return file, header.Filename, true
}

func (h *Handler) inspect(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.RequireUser(w, r); !ok {
		return
	}

	file, filename, ok := h.upload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	maxRows := h.opts.PreviewRows
	if s := r.FormValue("max_rows"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid max_rows", http.StatusBadRequest)
			return
		}

		maxRows = n
	}

	preview, err := h.importSvc.Inspect(file, maxRows)
	if err != nil {
		writeReadError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, inspectResponse{
		Filename:            filename,
		Headers:             preview.Headers,
		Rows:                preview.Rows,
		TotalRows:           preview.TotalRows,
		Charset:             string(preview.Charset),
		Delimiter:           string(preview.Delimiter),
		DetectedDateFormats: preview.DetectedDateFormats,
		SuggestedSchema:     toSuggestion(preview.Suggested),
	})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	file, _, ok := h.upload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	sc, ok := h.resolveSchema(w, r, userID)
	if !ok {
		return
	}

	result, err := h.importSvc.PreviewTransactions(r.Context(), file, sc, userID)
	if err != nil {
		writeReadError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

// resolveSchema loads the saved schema named by schema_id, or decodes an
// inline one from the schema field.
func (h *Handler) resolveSchema(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (schema.Schema, bool) {
	if raw := r.FormValue("schema_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid schema_id", http.StatusBadRequest)
			return schema.Schema{}, false
		}

		sc, err := h.schemaSvc.Get(r.Context(), userID, id)
		if err != nil {
			schemaHandler.WriteError(w, r, err)
			return schema.Schema{}, false
		}

		return *sc, true
	}

	if raw := r.FormValue("schema"); raw != "" {
		sc, err := schemaHandler.DecodeInline(raw, userID)
		if err != nil {
			http.Error(w, "invalid schema: "+err.Error(), http.StatusBadRequest)
			return schema.Schema{}, false
		}

		return sc, true
	}

	http.Error(w, "schema_id or schema is required", http.StatusBadRequest)

	return schema.Schema{}, false
}

func writeReadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, csvreader.ErrEmptyFile) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	schemaHandler.WriteError(w, r, err)
}

type confirmRequest struct {
	Filename     string                         `json:"filename"`
	AccountID    uuid.UUID                      `json:"account_id"`
	SchemaID     *uuid.UUID                     `json:"schema_id,omitempty"`
	TotalRows    int                            `json:"total_rows"`
	Transactions []importer.ReviewedTransaction `json:"transactions"`
}

type failedImportResponse struct {
	Error string `json:"error"`
	importResultResponse
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.AccountID == uuid.Nil {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	imp, err := h.importSvc.ImportReviewedTransactions(r.Context(), importer.ImportParams{
		UserID:       userID,
		AccountID:    req.AccountID,
		SchemaID:     req.SchemaID,
		Filename:     req.Filename,
		TotalRows:    req.TotalRows,
		Transactions: req.Transactions,
	})
	if err != nil {
		status := confirmStatus(err)
		if imp == nil {
			if status == http.StatusInternalServerError {
				respond.Internal(w, r, err)
				return
			}

			http.Error(w, err.Error(), status)

			return
		}

		respond.JSON(w, status, failedImportResponse{Error: err.Error(), importResultResponse: toImportResult(imp)})

		return
	}

	respond.JSON(w, http.StatusCreated, toImportResult(imp))
}

func confirmStatus(err error) int {
	var payloadErr *importer.PayloadError

	switch {
	case errors.Is(err, account.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tag.ErrNotOwned):
		return http.StatusForbidden
	case errors.As(err, &payloadErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
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

	imp, err := h.importSvc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, importer.ErrNotFound) {
			http.Error(w, "import not found", http.StatusNotFound)
			return
		}

		respond.Internal(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toImportResult(imp))
}
