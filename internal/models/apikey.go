package models

import (
	"time"

	"gorm.io/gorm"
)

// API key environments. LIVE issuance requires a verified merchant.
const (
	EnvironmentTest = "TEST"
	EnvironmentLive = "LIVE"
)

// APIKey stores only the display prefix and a sha256 hash of the full key.
// The full secret exists once, in the creation response.
type APIKey struct {
	gorm.Model
	KeyID       string `gorm:"uniqueIndex;not null"`
	MerchantID  uint   `gorm:"index;not null"`
	Prefix      string `gorm:"not null"`
	KeyHash     string `gorm:"uniqueIndex;not null"`
	Label       string
	Environment string `gorm:"not null"`
	Active      bool   `gorm:"default:true"`
	RevokedAt   *time.Time
}

// APIKeyResponse is the wire shape of a key. Key is populated only when the
// key has just been created.
type APIKeyResponse struct {
	ID          string    `json:"id"`
	Prefix      string    `json:"prefix"`
	Label       string    `json:"label,omitempty"`
	Key         string    `json:"key,omitempty"`
	IsActive    bool      `json:"is_active"`
	Environment string    `json:"environment"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse maps the stored key to its wire shape, without the secret.
func (k *APIKey) ToResponse() APIKeyResponse {
	return APIKeyResponse{
		ID:          k.KeyID,
		Prefix:      k.Prefix,
		Label:       k.Label,
		IsActive:    k.Active,
		Environment: k.Environment,
		CreatedAt:   k.CreatedAt,
	}
}

// ValidEnvironment reports whether env is a supported key environment.
func ValidEnvironment(env string) bool {
	return env == EnvironmentTest || env == EnvironmentLive
}
