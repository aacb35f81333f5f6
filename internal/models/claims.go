package models

import "github.com/golang-jwt/jwt/v5"

// Roles
const (
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Merchant permissions
	PermissionMerchantRead  = "merchant:read"
	PermissionMerchantWrite = "merchant:write"

	// API key permissions
	PermissionAPIKeyRead  = "apikey:read"
	PermissionAPIKeyWrite = "apikey:write"

	// Compliance permissions
	PermissionKYCRead  = "kyc:read"
	PermissionKYCWrite = "kyc:write"

	// Account permissions
	PermissionChangePassword = "user:change-password"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID        uint     `json:"user_id"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	EmailVerified bool     `json:"email_verified"`
	Permissions   []string `json:"permissions"`
	TokenVersion  int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// IsStaff reports whether the claims belong to an admin-console user.
func (c *UserClaims) IsStaff() bool {
	return c.Role == RoleAdmin
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionMerchantRead,
			PermissionMerchantWrite,
			PermissionAPIKeyRead,
			PermissionAPIKeyWrite,
			PermissionKYCRead,
			PermissionKYCWrite,
			PermissionChangePassword,
		}
	case RoleMerchant:
		return []string{
			PermissionMerchantRead,
			PermissionMerchantWrite,
			PermissionAPIKeyRead,
			PermissionAPIKeyWrite,
			PermissionKYCRead,
			PermissionKYCWrite,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
