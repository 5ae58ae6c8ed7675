package importcsv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/penny/internal/account"
	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	"github.com/MrJamesThe3rd/penny/internal/http/importcsv"
	"github.com/MrJamesThe3rd/penny/internal/importer"
	"github.com/MrJamesThe3rd/penny/internal/matching"
	"github.com/MrJamesThe3rd/penny/internal/schema"
	"github.com/MrJamesThe3rd/penny/internal/tag"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

var (
	userID    = uuid.MustParse("0f3c6a9e-2b4d-4e8f-a1c7-5d9b3e6f8a20")
	accountID = uuid.MustParse("b7e2d4c1-9a3f-4c6e-8d2b-1f5a7c9e3b64")
)

const statement = "Date,Description,Amount,Balance\n" +
	"15/01/2023,Coffee,-3.50,996.50\n" +
	"16/01/2023,Salary,2000.00,2996.50\n"

const inlineSchema = `{"name":"inline","transaction_data_start":2,"date_column":1,"description_column":2,"amount_column":3,"balance_column":4}`

type mocks struct {
	repo       *importer.MockRepository
	txs        *importer.MockTransactions
	accounts   *importer.MockAccounts
	tags       *importer.MockTags
	suggester  *importer.MockTagSuggester
	schemaRepo *schema.MockRepository
}

func newRouter(t *testing.T) (chi.Router, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:       importer.NewMockRepository(ctrl),
		txs:        importer.NewMockTransactions(ctrl),
		accounts:   importer.NewMockAccounts(ctrl),
		tags:       importer.NewMockTags(ctrl),
		suggester:  importer.NewMockTagSuggester(ctrl),
		schemaRepo: schema.NewMockRepository(ctrl),
	}

	h := importcsv.NewHandler(
		importer.NewService(m.repo, m.txs, m.accounts, m.tags, m.suggester),
		schema.NewService(m.schemaRepo),
		importcsv.Options{MaxUploadBytes: 1 << 20, PreviewRows: 5},
	)

	r := chi.NewRouter()
	h.Routes(r)

	return r, m
}

func multipartRequest(t *testing.T, target, content string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestHandler_Inspect(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "/inspect", statement, map[string]string{"max_rows": "1"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Filename            string            `json:"filename"`
		Headers             []string          `json:"headers"`
		Rows                [][]string        `json:"rows"`
		TotalRows           int               `json:"total_rows"`
		Delimiter           string            `json:"delimiter"`
		DetectedDateFormats map[string]string `json:"detected_date_formats"`
		SuggestedSchema     struct {
			Profile              string `json:"profile"`
			TransactionDataStart int    `json:"transaction_data_start"`
			AmountColumn         int    `json:"amount_column"`
			BalanceColumn        int    `json:"balance_column"`
			DateFormat           string `json:"date_format"`
		} `json:"suggested_schema"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, "statement.csv", got.Filename)
	assert.Equal(t, []string{"Date", "Description", "Amount", "Balance"}, got.Headers)
	assert.Len(t, got.Rows, 1)
	assert.Equal(t, 2, got.TotalRows)
	assert.Equal(t, ",", got.Delimiter)
	assert.Equal(t, "d/m/Y", got.DetectedDateFormats["1"])

	assert.Equal(t, "Signed amount", got.SuggestedSchema.Profile)
	assert.Equal(t, 2, got.SuggestedSchema.TransactionDataStart)
	assert.Equal(t, 3, got.SuggestedSchema.AmountColumn)
	assert.Equal(t, 4, got.SuggestedSchema.BalanceColumn)
	assert.Equal(t, "d/m/Y", got.SuggestedSchema.DateFormat)
}

func TestHandler_InspectErrors(t *testing.T) {
	type testCase struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Empty file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/inspect", "\n\n", nil)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid max rows",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/inspect", statement, map[string]string{"max_rows": "many"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "No file",
			req: func(t *testing.T) *http.Request {
				return jsonRequest(http.MethodPost, "/inspect", "{}")
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/inspect", strings.Repeat("a,b\n", 1<<19), nil)
			},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(t)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, tt.req(t))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_Preview(t *testing.T) {
	r, m := newRouter(t)

	m.txs.EXPECT().ExistingHashes(gomock.Any(), userID, gomock.Len(2)).Return(map[string]bool{}, nil)
	m.suggester.EXPECT().Matcher(gomock.Any(), userID).Return(matching.NewMatcher(nil), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "/preview", statement, map[string]string{"schema": inlineSchema}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got importer.PreviewResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, 2, got.TotalRows)
	assert.Equal(t, 2, got.ValidCount)
	assert.Empty(t, got.Errors)
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "2023-01-15", got.Transactions[0].Date)
	assert.Equal(t, int64(350), *got.Transactions[0].PaidOut)
	assert.Equal(t, int64(200000), *got.Transactions[1].PaidIn)
}

func TestHandler_PreviewSavedSchema(t *testing.T) {
	r, m := newRouter(t)
	schemaID := uuid.New()

	m.schemaRepo.EXPECT().GetSchema(gomock.Any(), userID, schemaID).Return(nil, schema.ErrNotFound)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "/preview", statement, map[string]string{"schema_id": schemaID.String()}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_PreviewErrors(t *testing.T) {
	type testCase struct {
		name       string
		fields     map[string]string
		wantStatus int
	}

	tests := []testCase{
		{name: "No schema", fields: nil, wantStatus: http.StatusBadRequest},
		{name: "Malformed schema id", fields: map[string]string{"schema_id": "x"}, wantStatus: http.StatusBadRequest},
		{name: "Malformed inline schema", fields: map[string]string{"schema": "{"}, wantStatus: http.StatusBadRequest},
		{
			name:       "Invalid inline schema",
			fields:     map[string]string{"schema": `{"transaction_data_start":1,"date_column":1}`},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(t)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, multipartRequest(t, "/preview", statement, tt.fields))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func confirmBody(status, paidIn string, tagIDs ...uuid.UUID) string {
	tags, _ := json.Marshal(tagIDs)

	return `{"filename":"statement.csv","account_id":"` + accountID.String() + `","transactions":[` +
		`{"date":"2023-01-16","balance":299650,"paid_in":` + paidIn + `,"paid_out":null,"row_number":3,` +
		`"status":"` + status + `","tag_ids":` + string(tags) + `}]}`
}

func TestHandler_Confirm(t *testing.T) {
	tagID := uuid.New()

	type testCase struct {
		name       string
		body       string
		setupMock  func(m mocks)
		wantStatus int
		wantImport bool
	}

	tests := []testCase{
		{
			name: "Imported",
			body: confirmBody("approved", "200000", tagID),
			setupMock: func(m mocks) {
				m.accounts.EXPECT().Get(gomock.Any(), userID, accountID).Return(&account.Account{ID: accountID}, nil)
				m.tags.EXPECT().EnsureOwned(gomock.Any(), userID, []uuid.UUID{tagID}).Return(nil)
				m.repo.EXPECT().CreateImport(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, imp *importer.Import) error {
						imp.ID = uuid.New()
						return nil
					})
				m.repo.EXPECT().UpdateImport(gomock.Any(), gomock.Any()).Return(nil).Times(2)
				m.txs.EXPECT().ImportBatch(gomock.Any(), userID, accountID, gomock.Len(1)).
					Return(&transaction.ImportResult{Imported: []*transaction.Transaction{{}}}, nil)
			},
			wantStatus: http.StatusCreated,
			wantImport: true,
		},
		{
			name: "Unknown account",
			body: confirmBody("approved", "200000"),
			setupMock: func(m mocks) {
				m.accounts.EXPECT().Get(gomock.Any(), userID, accountID).Return(nil, account.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "Tag not owned",
			body: confirmBody("approved", "200000", tagID),
			setupMock: func(m mocks) {
				m.accounts.EXPECT().Get(gomock.Any(), userID, accountID).Return(&account.Account{ID: accountID}, nil)
				m.tags.EXPECT().EnsureOwned(gomock.Any(), userID, gomock.Any()).
					Return(&tag.OwnershipError{Missing: []uuid.UUID{tagID}})
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "Malformed row marks import failed",
			body: confirmBody("approved", "null"),
			setupMock: func(m mocks) {
				m.accounts.EXPECT().Get(gomock.Any(), userID, accountID).Return(&account.Account{ID: accountID}, nil)
				m.tags.EXPECT().EnsureOwned(gomock.Any(), userID, gomock.Any()).Return(nil)
				m.repo.EXPECT().CreateImport(gomock.Any(), gomock.Any()).Return(nil)
				m.repo.EXPECT().UpdateImport(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantImport: true,
		},
		{
			name:       "Missing account",
			body:       `{"transactions":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Malformed body",
			body:       `[`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := newRouter(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, jsonRequest(http.MethodPost, "/confirm", tt.body))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if !tt.wantImport {
				return
			}

			var got struct {
				Import struct {
					Status string `json:"status"`
				} `json:"import"`
				Stats importer.Stats `json:"stats"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "completed", got.Import.Status)
				assert.Equal(t, 1, got.Stats.ImportedRows)
				assert.InDelta(t, 100.0, got.Stats.SuccessRate, 0.001)
			} else {
				assert.Equal(t, "failed", got.Import.Status)
			}
		})
	}
}

func TestHandler_Get(t *testing.T) {
	r, m := newRouter(t)
	id := uuid.New()

	m.repo.EXPECT().GetImport(gomock.Any(), userID, id).Return(&importer.Import{
		ID:            id,
		Status:        importer.StatusCompleted,
		TotalRows:     4,
		ProcessedRows: 4,
		ImportedRows:  3,
		DuplicateRows: 1,
	}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest(http.MethodGet, "/"+id.String(), ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Stats importer.Stats `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.InDelta(t, 75.0, got.Stats.SuccessRate, 0.001)

	missing := uuid.New()
	m.repo.EXPECT().GetImport(gomock.Any(), userID, missing).Return(nil, importer.ErrNotFound)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest(http.MethodGet, "/"+missing.String(), ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
