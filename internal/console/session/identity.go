package session

import (
	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID        uint   `json:"user_id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// IdentityFromToken recovers the signed-in identity from an access
// token's claims, for sessions restored from a stored token rather
// than a login response. The signature is not checked here; the server
// rejects tampered tokens on every call.
func IdentityFromToken(accessToken string) (Identity, bool) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return Identity{}, false
	}
	return Identity{
		ID:            claims.UserID,
		Email:         claims.Email,
		Role:          claims.Role,
		Staff:         claims.Role == "admin",
		EmailVerified: claims.EmailVerified,
	}, true
}
