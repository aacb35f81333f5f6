package api

import (
	"context"
	"net/http"
	"time"
)

// Address mirrors the profile's postal address wire shape.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// MerchantProfile is the profile record as served by the API. KYCStatus
// is read-only here; it only changes through compliance actions.
type MerchantProfile struct {
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

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	BusinessName       *string        `json:"business_name,omitempty"`
	RegistrationNumber *string        `json:"registration_number,omitempty"`
	TaxID              *string        `json:"tax_id,omitempty"`
	Address            *AddressUpdate `json:"address,omitempty"`
}

type AddressUpdate struct {
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty"`
}

func (c *Client) GetProfile(ctx context.Context) (*MerchantProfile, error) {
	var out MerchantProfile
	if err := c.doJSON(ctx, http.MethodGet, "/api/merchant/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*MerchantProfile, error) {
	var out MerchantProfile
	if err := c.doJSON(ctx, http.MethodPut, "/api/merchant/profile", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
