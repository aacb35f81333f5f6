package wizard

import (
	"paypsp/internal/console/api"
	"paypsp/internal/validation"
)

// Payload is the composite handed to the caller on final submit:
// profile fields plus the verification data. Country codes are
// uppercased here, before anything reaches the wire.
type Payload struct {
	BusinessInfo api.ProfileUpdate
	KYCData      api.KYCInitiation
}

// Payload snapshots the draft. Callers should check CanSubmit first;
// the snapshot does not re-validate.
func (w *Wizard) Payload() Payload {
	b := w.Business
	country := validation.NormalizeCountry(b.Country)

	p := Payload{
		BusinessInfo: api.ProfileUpdate{
			BusinessName:       &b.BusinessName,
			RegistrationNumber: &b.RegistrationNumber,
			TaxID:              &b.TaxID,
			Address: &api.AddressUpdate{
				Street:     &b.Street,
				City:       &b.City,
				State:      &b.State,
				PostalCode: &b.PostalCode,
				Country:    &country,
			},
		},
		KYCData: api.KYCInitiation{
			MerchantType: w.merchantType,
		},
	}

	if w.merchantType == MerchantIndividual {
		p.KYCData.IDType = w.idType
		p.KYCData.IDCountry = validation.NormalizeCountry(w.idCountry)
	}

	kinds := []string{FileBusinessRegistration}
	if w.merchantType == MerchantIndividual {
		kinds = []string{FileSelfie, FileIDFront, FileIDBack}
	}
	for _, kind := range kinds {
		f := w.files[kind]
		if f == nil {
			continue
		}
		p.KYCData.Files = append(p.KYCData.Files, api.Attachment{
			Field:       kind,
			FileName:    f.Name,
			ContentType: f.ContentType,
			Data:        f.Data,
		})
	}
	return p
}
