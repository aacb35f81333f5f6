package merchant

import (
	"log"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/validation"
)

type Service struct {
	repo repositories.MerchantRepository
}

func NewService(repo repositories.MerchantRepository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the merchant profile owned by userID.
func (s *Service) GetProfile(userID uint) (*models.MerchantProfile, error) {
	return s.repo.GetByUserID(userID)
}

// UpdateProfile applies a partial update. Nil fields are left untouched.
// KYC status is never writable here; only the compliance service moves it.
func (s *Service) UpdateProfile(userID uint, input UpdateProfileInput) (*models.MerchantProfile, error) {
	profile, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	v := validation.New()
	if input.BusinessName != nil {
		v.Required("business_name", *input.BusinessName)
		v.MaxLength("business_name", *input.BusinessName, validation.MaxBusinessNameLength)
	}
	if input.Address != nil && input.Address.Country != nil {
		v.CountryCode("address.country", validation.NormalizeCountry(*input.Address.Country))
	}
	if !v.Valid() {
		return nil, ValidationFailed(v.Errors)
	}

	if input.BusinessName != nil {
		profile.BusinessName = *input.BusinessName
	}
	if input.RegistrationNumber != nil {
		profile.RegistrationNumber = *input.RegistrationNumber
	}
	if input.TaxID != nil {
		profile.TaxID = *input.TaxID
	}
	if input.Address != nil {
		a := input.Address
		if a.Street != nil {
			profile.Street = *a.Street
		}
		if a.City != nil {
			profile.City = *a.City
		}
		if a.State != nil {
			profile.State = *a.State
		}
		if a.PostalCode != nil {
			profile.PostalCode = *a.PostalCode
		}
		if a.Country != nil {
			profile.Country = validation.NormalizeCountry(*a.Country)
		}
	}

	if err := s.repo.Update(profile); err != nil {
		log.Printf("Failed to update merchant profile for user %d: %v", userID, err)
		return nil, err
	}
	return profile, nil
}

// List returns merchant profiles for the admin console.
func (s *Service) List(limit, offset int) ([]*models.MerchantProfile, int64, error) {
	return s.repo.List(limit, offset)
}
