package models

import "gorm.io/gorm"

// Merchant types
const (
	MerchantTypeIndividual = "INDIVIDUAL"
	MerchantTypeBusiness   = "BUSINESS"
)

// Identity document types
const (
	IDTypeNationalID     = "NATIONAL_ID"
	IDTypePassport       = "PASSPORT"
	IDTypeDriversLicense = "DRIVERS_LICENSE"
)

// KYC job states
const (
	KYCJobPending      = "PENDING"
	KYCJobVerified     = "VERIFIED"
	KYCJobRejected     = "REJECTED"
	KYCJobManualReview = "MANUAL_REVIEW"
	KYCJobCancelled    = "CANCELLED"
)

// Document kinds accepted on a KYC submission.
const (
	DocSelfie               = "selfie"
	DocIDFront              = "id_front"
	DocIDBack               = "id_back"
	DocBusinessRegistration = "business_registration"
	DocTaxCertificate       = "tax_certificate"
	DocProofOfAddress       = "proof_of_address"
)

// KYCJob is one verification attempt for a merchant. The job id is the
// reference handed back to the client and stored on the profile.
type KYCJob struct {
	gorm.Model
	JobID        string `gorm:"uniqueIndex;not null"`
	MerchantID   uint   `gorm:"index;not null"`
	MerchantType string `gorm:"not null"`
	IDType       string
	IDCountry    string
	Status       string `gorm:"default:'PENDING'"`
	ReviewedBy   *uint
	ReviewNote   string
	Documents    []KYCDocument `gorm:"foreignKey:KYCJobID"`
}

type KYCDocument struct {
	gorm.Model
	KYCJobID    uint   `gorm:"index;not null"`
	Kind        string `gorm:"not null"`
	FileName    string
	ContentType string
	Size        int64
	Data        []byte `gorm:"type:bytea"`
}

// ValidIDType reports whether t is a supported identity document type.
func ValidIDType(t string) bool {
	return t == IDTypeNationalID || t == IDTypePassport || t == IDTypeDriversLicense
}

// ValidMerchantType reports whether t is a supported merchant type.
func ValidMerchantType(t string) bool {
	return t == MerchantTypeIndividual || t == MerchantTypeBusiness
}
