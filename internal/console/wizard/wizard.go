// Package wizard implements the KYC submission wizard: an ordered step
// sequence with one branch (the selfie step exists only for individual
// merchants), per-step advance guards, and local document staging.
package wizard

import (
	"paypsp/internal/validation"
)

// Step identifiers, in order.
type Step string

const (
	StepBusinessInfo Step = "business-info"
	StepType         Step = "type"
	StepIDUpload     Step = "id-upload"
	StepSelfie       Step = "selfie"
	StepReview       Step = "review"
)

// Merchant classifications.
const (
	MerchantIndividual = "INDIVIDUAL"
	MerchantBusiness   = "BUSINESS"
)

// Identity document types.
const (
	IDNationalID     = "NATIONAL_ID"
	IDPassport       = "PASSPORT"
	IDDriversLicense = "DRIVERS_LICENSE"
)

// Document slots.
const (
	FileSelfie               = "selfie"
	FileIDFront              = "id_front"
	FileIDBack               = "id_back"
	FileBusinessRegistration = "business_registration"
)

type transitionKey struct {
	step Step
	kind string // merchant type
}

// forward is the single transition table; backward moves are derived
// from it, so the selfie skip for business merchants holds in both
// directions.
var forward = map[transitionKey]Step{
	{StepBusinessInfo, MerchantIndividual}: StepType,
	{StepBusinessInfo, MerchantBusiness}:   StepType,
	{StepType, MerchantIndividual}:         StepIDUpload,
	{StepType, MerchantBusiness}:           StepIDUpload,
	{StepIDUpload, MerchantIndividual}:     StepSelfie,
	{StepIDUpload, MerchantBusiness}:       StepReview,
	{StepSelfie, MerchantIndividual}:       StepReview,
}

// BusinessInfo is the profile portion of the draft.
type BusinessInfo struct {
	BusinessName       string
	RegistrationNumber string
	TaxID              string
	Street             string
	City               string
	State              string
	PostalCode         string
	Country            string
}

// Wizard owns one submission draft. The draft is transient: it exists
// only while the wizard is open and is discarded on cancel or after a
// successful submission.
type Wizard struct {
	step Step

	Business     BusinessInfo
	merchantType string
	idType       string
	idCountry    string

	files map[string]*StagedFile
}

func New() *Wizard {
	return &Wizard{
		step:         StepBusinessInfo,
		merchantType: MerchantIndividual,
		idType:       IDNationalID,
		files:        make(map[string]*StagedFile),
	}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) MerchantType() string { return w.merchantType }

// SetMerchantType records the classification. Changing to BUSINESS
// while on the selfie step moves the wizard back to id-upload, since
// that step no longer exists on the business path.
func (w *Wizard) SetMerchantType(kind string) bool {
	if kind != MerchantIndividual && kind != MerchantBusiness {
		return false
	}
	w.merchantType = kind
	if kind == MerchantBusiness && w.step == StepSelfie {
		w.step = StepIDUpload
	}
	return true
}

func (w *Wizard) IDType() string { return w.idType }

func (w *Wizard) SetIDType(idType string) bool {
	switch idType {
	case IDNationalID, IDPassport, IDDriversLicense:
		w.idType = idType
		return true
	}
	return false
}

func (w *Wizard) IDCountry() string { return w.idCountry }

func (w *Wizard) SetIDCountry(code string) {
	w.idCountry = validation.NormalizeCountry(code)
}

// OffersIDBack reports whether the back-of-document upload is shown.
// Passports have no back image.
func (w *Wizard) OffersIDBack() bool {
	return w.merchantType == MerchantIndividual &&
		(w.idType == IDNationalID || w.idType == IDDriversLicense)
}

// CanAdvance is the per-step guard for the Next action.
func (w *Wizard) CanAdvance() bool {
	switch w.step {
	case StepBusinessInfo:
		return w.businessInfoValid()
	case StepType:
		return w.merchantType != ""
	case StepIDUpload:
		if w.merchantType == MerchantBusiness {
			return w.Staged(FileBusinessRegistration)
		}
		return w.Staged(FileIDFront) && validation.IsCountryCode(w.idCountry)
	case StepSelfie:
		return w.Staged(FileSelfie)
	}
	return false
}

// Next advances one step. Movement follows the transition table, so
// business merchants go straight from id-upload to review.
func (w *Wizard) Next() bool {
	if w.step == StepReview || !w.CanAdvance() {
		return false
	}
	next, ok := forward[transitionKey{w.step, w.merchantType}]
	if !ok {
		return false
	}
	w.step = next
	return true
}

// Back moves one step toward the start, skipping the selfie step for
// business merchants by walking the same table in reverse.
func (w *Wizard) Back() bool {
	if w.step == StepBusinessInfo {
		return false
	}
	for key, next := range forward {
		if next == w.step && key.kind == w.merchantType {
			w.step = key.step
			return true
		}
	}
	return false
}

// CanSubmit is the final guard: the document path matching the merchant
// type is complete and the business-info guard still holds.
func (w *Wizard) CanSubmit() bool {
	if !w.businessInfoValid() {
		return false
	}
	if w.merchantType == MerchantBusiness {
		return w.Staged(FileBusinessRegistration)
	}
	return w.Staged(FileSelfie) && w.Staged(FileIDFront) && validation.IsCountryCode(w.idCountry)
}

func (w *Wizard) businessInfoValid() bool {
	return w.Business.BusinessName != "" && validation.IsCountryCode(validation.NormalizeCountry(w.Business.Country))
}
