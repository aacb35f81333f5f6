package api

import (
	"context"
	"net/http"
)

type MFAStatus struct {
	Enabled              bool   `json:"mfa_enabled"`
	BackupCodesRemaining *int64 `json:"backup_codes_remaining"`
}

type MFASetup struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"provisioning_uri"`
	BackupCodes     []string `json:"backup_codes"`
}

type mfaCodeRequest struct {
	Code     string `json:"code"`
	Password string `json:"password,omitempty"`
}

func (c *Client) MFAStatus(ctx context.Context) (*MFAStatus, error) {
	var out MFAStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/2fa", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MFASetup(ctx context.Context) (*MFASetup, error) {
	var out MFASetup
	if err := c.doJSON(ctx, http.MethodPost, "/api/2fa/setup", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MFAEnable(ctx context.Context, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/2fa/enable", mfaCodeRequest{Code: code}, nil)
}

func (c *Client) MFADisable(ctx context.Context, code, password string) error {
	req := mfaCodeRequest{Code: code, Password: password}
	return c.doJSON(ctx, http.MethodPost, "/api/2fa/disable", req, nil)
}

func (c *Client) MFARegenerateBackupCodes(ctx context.Context, code, password string) ([]string, error) {
	var out struct {
		BackupCodes []string `json:"backup_codes"`
	}
	req := mfaCodeRequest{Code: code, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/2fa/backup-codes", req, &out); err != nil {
		return nil, err
	}
	return out.BackupCodes, nil
}
