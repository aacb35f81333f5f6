// Package apikey issues and revokes programmatic access credentials.
package apikey

import (
	"errors"
	"log"
	"time"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/validation"

	"github.com/google/uuid"
)

var (
	ErrInvalidKey          = errors.New("invalid api key")
	ErrInvalidEnvironment  = errors.New("environment must be TEST or LIVE")
	ErrMerchantNotVerified = errors.New("live keys require a verified merchant")
	ErrKeyRevoked          = errors.New("api key already revoked")
	ErrLabelTooLong        = errors.New("label is too long")
)

type Service struct {
	keyRepo      repositories.APIKeyRepository
	merchantRepo repositories.MerchantRepository
}

func NewService(keyRepo repositories.APIKeyRepository, merchantRepo repositories.MerchantRepository) *Service {
	return &Service{keyRepo: keyRepo, merchantRepo: merchantRepo}
}

// Create issues a key for the user's merchant. The returned response is the
// only place the full secret ever appears.
func (s *Service) Create(userID uint, label, environment string) (*models.APIKeyResponse, error) {
	if !models.ValidEnvironment(environment) {
		return nil, ErrInvalidEnvironment
	}
	if len(label) > validation.MaxLabelLength {
		return nil, ErrLabelTooLong
	}

	profile, err := s.merchantRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	// LIVE issuance is gated on verification server-side; the client-side
	// gate merely mirrors this.
	if environment == models.EnvironmentLive && profile.KYCStatus != models.KYCStatusVerified {
		return nil, ErrMerchantNotVerified
	}

	fullKey, prefix, hash, err := Generate(environment)
	if err != nil {
		return nil, err
	}

	key := &models.APIKey{
		KeyID:       uuid.NewString(),
		MerchantID:  profile.ID,
		Prefix:      prefix,
		KeyHash:     hash,
		Label:       label,
		Environment: environment,
		Active:      true,
	}
	if err := s.keyRepo.Create(key); err != nil {
		return nil, err
	}

	log.Printf("API key %s issued for merchant %d (%s)", key.KeyID, profile.ID, environment)

	resp := key.ToResponse()
	resp.Key = fullKey
	return &resp, nil
}

// List returns the merchant's keys, never including secrets.
func (s *Service) List(userID uint) ([]models.APIKeyResponse, error) {
	profile, err := s.merchantRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	keys, err := s.keyRepo.ListByMerchant(profile.ID)
	if err != nil {
		return nil, err
	}

	out := make([]models.APIKeyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.ToResponse())
	}
	return out, nil
}

// Revoke deactivates a key. Revocation is final; revoking an already-revoked
// key is an error and never a second effect.
func (s *Service) Revoke(userID uint, keyID string) error {
	profile, err := s.merchantRepo.GetByUserID(userID)
	if err != nil {
		return err
	}

	key, err := s.keyRepo.GetByKeyID(profile.ID, keyID)
	if err != nil {
		return err
	}
	if !key.Active {
		return ErrKeyRevoked
	}

	now := time.Now()
	key.Active = false
	key.RevokedAt = &now
	if err := s.keyRepo.Update(key); err != nil {
		return err
	}

	log.Printf("API key %s revoked for merchant %d", key.KeyID, profile.ID)
	return nil
}
