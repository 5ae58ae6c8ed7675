package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/penny/internal/http/auth"
)

var secret = []byte("test-secret")

func TestMiddleware(t *testing.T) {
	userID := uuid.New()

	valid, err := auth.NewToken(secret, userID, time.Hour)
	require.NoError(t, err)

	expired, err := auth.NewToken(secret, userID, -time.Hour)
	require.NoError(t, err)

	otherKey, err := auth.NewToken([]byte("other"), userID, time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "bob"}).
		SignedString(secret)
	require.NoError(t, err)

	type testCase struct {
		name       string
		header     string
		wantStatus int
	}

	tests := []testCase{
		{name: "Valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "Lower case scheme", header: "bearer " + valid, wantStatus: http.StatusOK},
		{name: "No header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "Expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "Wrong key", header: "Bearer " + otherKey, wantStatus: http.StatusUnauthorized},
		{name: "Subject not a uuid", header: "Bearer " + badSubject, wantStatus: http.StatusUnauthorized},
		{name: "Garbage", header: "Bearer abc.def", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uuid.UUID

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.UserID(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			auth.Middleware(secret)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, got)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := auth.RequireUser(rec, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	id := uuid.New()
	rec = httptest.NewRecorder()

	got, ok := auth.RequireUser(rec, req.WithContext(auth.WithUserID(req.Context(), id)))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
