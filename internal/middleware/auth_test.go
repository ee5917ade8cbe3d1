package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edubatch/internal/domain"
	"edubatch/internal/service"
)

func TestAuth(t *testing.T) {
	verifier := service.NewTokenVerifier("test-secret")

	var gotClaims *service.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = GetClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(verifier)(next)

	t.Run("valid_token_passes_claims_downstream", func(t *testing.T) {
		gotClaims = nil
		token, err := verifier.Issue(&service.Claims{UserID: 3, Name: "alice", Role: domain.RoleMentor}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, int64(3), gotClaims.UserID)
		assert.Equal(t, domain.RoleMentor, gotClaims.Role)
	})

	t.Run("missing_header_rejected", func(t *testing.T) {
		gotClaims = nil
		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, gotClaims)
	})

	t.Run("invalid_token_rejected", func(t *testing.T) {
		gotClaims = nil
		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, gotClaims)
	})

	t.Run("token_signed_with_other_secret_rejected", func(t *testing.T) {
		gotClaims = nil
		other := service.NewTokenVerifier("other-secret")
		token, err := other.Issue(&service.Claims{UserID: 3, Role: domain.RoleStudent}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, gotClaims)
	})
}
