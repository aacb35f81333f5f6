package models

import (
	"time"

	"gorm.io/gorm"
)

// KYC status values. Transitions are owned by the compliance service;
// nothing else writes this column.
const (
	KYCStatusNotStarted   = "NOT_STARTED"
	KYCStatusPending      = "PENDING"
	KYCStatusVerified     = "VERIFIED"
	KYCStatusRejected     = "REJECTED"
	KYCStatusManualReview = "MANUAL_REVIEW"
	KYCStatusCancelled    = "CANCELLED"
)

type MerchantProfile struct {
	ID                 uint   `gorm:"primarykey" json:"-"`
	ProfileID          string `gorm:"uniqueIndex;not null" json:"id"`
	UserID             uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	BusinessName       string `json:"business_name"`
	RegistrationNumber string `json:"registration_number"`
	TaxID              string `json:"tax_id"`
	Street             string `json:"-"`
	City               string `json:"-"`
	State              string `json:"-"`
	PostalCode         string `json:"-"`
	Country            string `json:"-"`
	KYCStatus          string `gorm:"default:'NOT_STARTED'" json:"kyc_status"`
	KYCReference       string `json:"kyc_reference,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// Address is the wire shape of the profile's postal address.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// MerchantProfileResponse is the JSON representation returned by the API.
type MerchantProfileResponse struct {
	ID                 string    `json:"id"`
	UserID             uint      `json:"user_id"`
	BusinessName       string    `json:"business_name"`
	RegistrationNumber string    `json:"registration_number"`
	TaxID              string    `json:"tax_id"`
	Address            Address   `json:"address"`
	KYCStatus          string    `json:"kyc_status"`
	KYCReference       string    `json:"kyc_reference,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ToResponse maps the stored profile to its wire shape.
func (m *MerchantProfile) ToResponse() MerchantProfileResponse {
	return MerchantProfileResponse{
		ID:                 m.ProfileID,
		UserID:             m.UserID,
		BusinessName:       m.BusinessName,
		RegistrationNumber: m.RegistrationNumber,
		TaxID:              m.TaxID,
		Address: Address{
			Street:     m.Street,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		KYCStatus:    m.KYCStatus,
		KYCReference: m.KYCReference,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// KYCInFlight reports whether a submission is awaiting a decision.
func (m *MerchantProfile) KYCInFlight() bool {
	return m.KYCStatus == KYCStatusPending || m.KYCStatus == KYCStatusManualReview
}
