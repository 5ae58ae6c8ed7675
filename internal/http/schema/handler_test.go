package schema_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/penny/internal/http/auth"
	schemaHandler "github.com/MrJamesThe3rd/penny/internal/http/schema"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

func serve(t *testing.T, repo *schema.MockRepository, userID uuid.UUID, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	schemaHandler.NewHandler(schema.NewService(repo)).Routes(r)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), userID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

const validBody = `{"name":"Monzo","transaction_data_start":2,"date_column":1,"balance_column":4,"amount_column":3,"description_column":2}`

func TestHandler_Create(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name       string
		body       string
		setupMock  func(m *schema.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Created",
			body: validBody,
			setupMock: func(m *schema.MockRepository) {
				m.EXPECT().CreateSchema(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Validation error",
			body:       `{"name":"Broken","transaction_data_start":1,"date_column":1}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "Missing name",
			body:       `{"transaction_data_start":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Name taken",
			body: validBody,
			setupMock: func(m *schema.MockRepository) {
				m.EXPECT().CreateSchema(gomock.Any(), gomock.Any()).Return(schema.ErrNameTaken)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := schema.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := serve(t, repo, userID, http.MethodPost, "/", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_CreateResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := schema.NewMockRepository(ctrl)
	userID := uuid.New()

	repo.EXPECT().CreateSchema(gomock.Any(), gomock.Any()).Return(nil)

	rec := serve(t, repo, userID, http.MethodPost, "/", validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, "Monzo", got["name"])
	assert.Equal(t, map[string]any{
		"date":        float64(1),
		"description": float64(2),
		"amount":      float64(3),
		"balance":     float64(4),
	}, got["column_mapping"])
}

func TestHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := schema.NewMockRepository(ctrl)
	userID := uuid.New()
	id := uuid.New()

	repo.EXPECT().GetSchema(gomock.Any(), userID, id).Return(nil, schema.ErrNotFound)

	rec := serve(t, repo, userID, http.MethodGet, "/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, repo, userID, http.MethodGet, "/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Clone(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := schema.NewMockRepository(ctrl)
	userID := uuid.New()
	id := uuid.New()

	repo.EXPECT().GetSchema(gomock.Any(), userID, id).Return(&schema.Schema{
		ID:                   id,
		UserID:               userID,
		Name:                 "Monzo",
		TransactionDataStart: 2,
		DateColumn:           1,
		BalanceColumn:        4,
		AmountColumn:         3,
	}, nil)
	repo.EXPECT().ListNames(gomock.Any(), userID).Return([]string{"Monzo", "Monzo (copy)"}, nil)
	repo.EXPECT().CreateSchema(gomock.Any(), gomock.Any()).Return(nil)

	rec := serve(t, repo, userID, http.MethodPost, "/"+id.String()+"/clone", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Monzo (copy 2)", got["name"])
}

func TestHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := schema.NewMockRepository(ctrl)
	userID := uuid.New()
	id := uuid.New()

	repo.EXPECT().DeleteSchema(gomock.Any(), userID, id).Return(nil)

	rec := serve(t, repo, userID, http.MethodDelete, "/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_DateFormats(t *testing.T) {
	rec := serve(t, nil, uuid.New(), http.MethodGet, "/date-formats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Contains(t, got, "d/m/Y")
	assert.Equal(t, "Y-m-d", got[0])
}

func TestHandler_Unauthenticated(t *testing.T) {
	r := chi.NewRouter()
	schemaHandler.NewHandler(schema.NewService(nil)).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
