package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edubatch/internal/domain"
)

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")

	t.Run("round_trip", func(t *testing.T) {
		token, err := verifier.Issue(&Claims{UserID: 3, Name: "alice", Role: domain.RoleMentor}, time.Hour)
		require.NoError(t, err)

		claims, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(3), claims.UserID)
		assert.Equal(t, "alice", claims.Name)
		assert.Equal(t, domain.RoleMentor, claims.Role)
	})

	t.Run("wrong_secret_rejected", func(t *testing.T) {
		other := NewTokenVerifier("other-secret")
		token, err := other.Issue(&Claims{UserID: 3, Name: "alice", Role: domain.RoleStudent}, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("expired_token_rejected", func(t *testing.T) {
		token, err := verifier.Issue(&Claims{UserID: 3, Name: "alice", Role: domain.RoleStudent}, -time.Minute)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("garbage_rejected", func(t *testing.T) {
		_, err := verifier.Verify("not-a-token")
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("unsigned_token_rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &tokenClaims{ID: 3})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("token_without_user_id_rejected", func(t *testing.T) {
		token, err := verifier.Issue(&Claims{UserID: 0, Name: "nobody", Role: domain.RoleStudent}, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}
