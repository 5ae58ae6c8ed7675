package matching_test

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
	matchingHandler "github.com/MrJamesThe3rd/penny/internal/http/matching"
	"github.com/MrJamesThe3rd/penny/internal/matching"
	"github.com/MrJamesThe3rd/penny/internal/tag"
)

func newRouter(t *testing.T) (chi.Router, *matching.MockRepository, *matching.MockTagOwnership) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	tags := matching.NewMockTagOwnership(ctrl)

	r := chi.NewRouter()
	matchingHandler.NewHandler(matching.NewService(repo, tags)).Routes(r)

	return r, repo, tags
}

func do(r chi.Router, userID uuid.UUID, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), userID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Suggest(t *testing.T) {
	r, repo, _ := newRouter(t)
	userID := uuid.New()
	tagID := uuid.New()

	repo.EXPECT().FindMatches(gomock.Any(), userID, "TESCO STORES 2231").Return([]uuid.UUID{tagID}, nil)

	rec := do(r, userID, http.MethodGet, "/suggest?description=TESCO+STORES+2231", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		TagIDs []uuid.UUID `json:"tag_ids"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, []uuid.UUID{tagID}, got.TagIDs)

	rec = do(r, userID, http.MethodGet, "/suggest", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Learn(t *testing.T) {
	userID := uuid.New()
	tagID := uuid.New()

	type testCase struct {
		name       string
		body       string
		setupMock  func(repo *matching.MockRepository, tags *matching.MockTagOwnership)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Created",
			body: `{"pattern":"tesco","tag_id":"` + tagID.String() + `"}`,
			setupMock: func(repo *matching.MockRepository, tags *matching.MockTagOwnership) {
				tags.EXPECT().EnsureOwned(gomock.Any(), userID, []uuid.UUID{tagID}).Return(nil)
				repo.EXPECT().CreateRule(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Tag not owned",
			body: `{"pattern":"tesco","tag_id":"` + tagID.String() + `"}`,
			setupMock: func(_ *matching.MockRepository, tags *matching.MockTagOwnership) {
				tags.EXPECT().EnsureOwned(gomock.Any(), userID, gomock.Any()).
					Return(&tag.OwnershipError{Missing: []uuid.UUID{tagID}})
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Blank pattern",
			body:       `{"pattern":"  ","tag_id":"` + tagID.String() + `"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Missing tag",
			body:       `{"pattern":"tesco"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, repo, tags := newRouter(t)
			if tt.setupMock != nil {
				tt.setupMock(repo, tags)
			}

			rec := do(r, userID, http.MethodPost, "/", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
