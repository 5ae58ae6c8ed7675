package export_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/penny/internal/export"
	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/penny/internal/http/export"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

func TestHandler_Transactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	userID := uuid.New()
	accountID := uuid.New()

	repo.EXPECT().ListTransactions(gomock.Any(), userID, transaction.ListFilter{AccountID: &accountID}).
		Return([]*transaction.Transaction{
			{
				Date:        time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC),
				Balance:     299650,
				PaidIn:      new(int64(200000)),
				Description: new("Salary"),
			},
		}, nil)

	r := chi.NewRouter()
	exportHandler.NewHandler(export.NewService(transaction.NewService(repo, nil))).Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/transactions.csv?account_id="+accountID.String(), nil)
	req = req.WithContext(auth.WithUserID(req.Context(), userID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Export-Count"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment;")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,description,paid_in,paid_out,balance", lines[0])
	assert.Equal(t, "2023-01-16,Salary,2000.00,,2996.50", lines[1])
}

func TestHandler_TransactionsBadFilter(t *testing.T) {
	r := chi.NewRouter()
	exportHandler.NewHandler(export.NewService(nil)).Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/transactions.csv?start_date=soon", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), uuid.New()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
