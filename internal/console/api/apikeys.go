package api

import (
	"context"
	"net/http"
	"time"
)

// APIKey as listed by the API. Key carries the full secret only in the
// creation response; it is never retrievable afterwards.
type APIKey struct {
	ID          string    `json:"id"`
	Prefix      string    `json:"prefix"`
	Key         string    `json:"key,omitempty"`
	Label       string    `json:"label,omitempty"`
	Environment string    `json:"environment"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type createKeyRequest struct {
	Label       string `json:"label"`
	Environment string `json:"environment"`
}

type createKeyResponse struct {
	Message string `json:"message"`
	APIKey  APIKey `json:"api_key"`
}

type listKeysResponse struct {
	APIKeys []APIKey `json:"api_keys"`
}

func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var out listKeysResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/merchant/api-keys", nil, &out); err != nil {
		return nil, err
	}
	return out.APIKeys, nil
}

func (c *Client) CreateAPIKey(ctx context.Context, label, environment string) (*APIKey, error) {
	var out createKeyResponse
	req := createKeyRequest{Label: label, Environment: environment}
	if err := c.doJSON(ctx, http.MethodPost, "/api/merchant/api-keys", req, &out); err != nil {
		return nil, err
	}
	return &out.APIKey, nil
}

func (c *Client) RevokeAPIKey(ctx context.Context, keyID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/merchant/api-keys/"+keyID, nil, nil)
}
