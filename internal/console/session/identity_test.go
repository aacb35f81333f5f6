package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims tokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestIdentityFromToken(t *testing.T) {
	token := signedToken(t, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:        42,
		Email:         "m@example.com",
		Role:          "merchant",
		EmailVerified: true,
	})

	id, ok := IdentityFromToken(token)
	require.True(t, ok)
	assert.EqualValues(t, 42, id.ID)
	assert.Equal(t, "m@example.com", id.Email)
	assert.Equal(t, "merchant", id.Role)
	assert.True(t, id.EmailVerified)
	assert.False(t, id.Staff)
}

func TestIdentityFromToken_AdminIsStaff(t *testing.T) {
	token := signedToken(t, tokenClaims{UserID: 1, Role: "admin"})

	id, ok := IdentityFromToken(token)
	require.True(t, ok)
	assert.True(t, id.Staff)
}

func TestIdentityFromToken_Garbage(t *testing.T) {
	_, ok := IdentityFromToken("not-a-jwt")
	assert.False(t, ok)
}
