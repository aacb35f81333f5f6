package api

import (
	"context"
	"net/http"
	"time"
)

// KYCInitiation is the parsed body of a verification submission. Files
// travel as multipart attachments, everything else as form fields.
type KYCInitiation struct {
	MerchantType string
	IDType       string
	IDCountry    string
	Files        []Attachment
}

// KYCJobRef is the server's acknowledgement of an initiation.
type KYCJobRef struct {
	JobID             string   `json:"job_id"`
	MerchantType      string   `json:"merchant_type"`
	IDType            string   `json:"id_type"`
	IDCountry         string   `json:"id_country"`
	DocumentsUploaded []string `json:"documents_uploaded"`
}

// KYCStatus is the latest verification job for the caller's merchant.
type KYCStatus struct {
	ID           string    `json:"id"`
	MerchantType string    `json:"merchant_type"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type KYCCancelResult struct {
	JobID          string `json:"job_id"`
	PreviousStatus string `json:"previous_status"`
}

func (c *Client) InitiateKYC(ctx context.Context, in KYCInitiation) (*KYCJobRef, error) {
	fields := map[string]string{
		"merchant_type": in.MerchantType,
		"id_type":       in.IDType,
		"id_country":    in.IDCountry,
	}
	var out KYCJobRef
	if err := c.doMultipart(ctx, "/api/merchant/kyc", fields, in.Files, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelKYC(ctx context.Context) (*KYCCancelResult, error) {
	var out KYCCancelResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/merchant/kyc/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetKYCStatus(ctx context.Context) (*KYCStatus, error) {
	var out KYCStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/merchant/kyc", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
