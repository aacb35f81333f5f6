package merchant

// UpdateProfileInput carries a partial profile update. Pointer fields
// distinguish "not sent" from "set to empty".
type UpdateProfileInput struct {
	BusinessName       *string             `json:"business_name"`
	RegistrationNumber *string             `json:"registration_number"`
	TaxID              *string             `json:"tax_id"`
	Address            *UpdateAddressInput `json:"address"`
}

type UpdateAddressInput struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
}
