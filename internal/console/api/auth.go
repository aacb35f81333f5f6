package api

import (
	"context"
	"net/http"
)

// User is the identity payload returned by the auth endpoints.
type User struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	IsStaff       bool   `json:"is_staff"`
	EmailVerified bool   `json:"email_verified"`
	MFAEnabled    bool   `json:"mfa_enabled"`
}

// LoginResponse is either a full token grant or a second-factor
// challenge, never both.
type LoginResponse struct {
	MFARequired  bool   `json:"mfa_required"`
	MFAToken     string `json:"mfa_token"`
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyTwoFactorRequest struct {
	MFAToken      string `json:"mfa_token"`
	Code          string `json:"code"`
	UseBackupCode bool   `json:"use_backup_code"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyTwoFactor(ctx context.Context, mfaToken, code string, useBackupCode bool) (*LoginResponse, error) {
	var out LoginResponse
	req := verifyTwoFactorRequest{MFAToken: mfaToken, Code: code, UseBackupCode: useBackupCode}
	if err := c.doJSON(ctx, http.MethodPost, "/api/login/verify-2fa", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/verify-email", verifyEmailRequest{Token: token}, nil)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/refresh", refreshRequest{RefreshToken: refreshToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the server to invalidate outstanding tokens. Callers
// treat it as fire-and-forget; local session teardown never waits on it.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	req := changePasswordRequest{OldPassword: current, NewPassword: updated}
	return c.doJSON(ctx, http.MethodPost, "/api/change-password", req, nil)
}
