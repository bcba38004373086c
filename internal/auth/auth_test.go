package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subslayer/subslayer/internal/auth"
)

const secret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func protected(t *testing.T) (http.Handler, *string, *string) {
	t.Helper()

	var gotUser, gotEmail string

	handler := auth.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = auth.GetUserID(r.Context())
		gotEmail, _ = auth.GetEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	return handler, &gotUser, &gotEmail
}

func TestMiddleware_ValidToken(t *testing.T) {
	handler, gotUser, gotEmail := protected(t)

	token := signToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", *gotUser)
	assert.Equal(t, "user@example.com", *gotEmail)
}

func TestMiddleware_Rejections(t *testing.T) {
	type testCase struct {
		name   string
		header string
	}

	expired := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	noSubject := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []testCase{
		{name: "MissingHeader", header: ""},
		{name: "NotBearer", header: "Token abc"},
		{name: "Garbage", header: "Bearer not.a.token"},
		{name: "Expired", header: "Bearer " + expired},
		{name: "NoSubject", header: "Bearer " + noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, _ := protected(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
