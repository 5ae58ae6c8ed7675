package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/penny/internal/export"
	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	"github.com/MrJamesThe3rd/penny/internal/http/respond"
	txHandler "github.com/MrJamesThe3rd/penny/internal/http/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions.csv", h.transactions)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	filter, err := txHandler.ParseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Buffered so a failure mid-export still produces a clean error response.
	var buf bytes.Buffer

	summary, err := h.svc.Export(r.Context(), userID, filter, &buf)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("20060102"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Export-Count", strconv.Itoa(summary.Count))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
