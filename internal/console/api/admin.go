package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PageMeta mirrors the server's pagination envelope.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int64 `json:"total_pages"`
}

type AdminUser struct {
	ID            uint       `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	MFAEnabled    bool       `json:"mfa_enabled"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

type AdminKYCJob struct {
	ID           string    `json:"id"`
	MerchantID   uint      `json:"merchant_id"`
	MerchantType string    `json:"merchant_type"`
	IDType       string    `json:"id_type"`
	IDCountry    string    `json:"id_country"`
	Status       string    `json:"status"`
	Documents    int       `json:"documents"`
	CreatedAt    time.Time `json:"created_at"`
}

type page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func (c *Client) AdminListUsers(ctx context.Context, pageNum, limit int) ([]AdminUser, PageMeta, error) {
	var out page[AdminUser]
	if err := c.doJSON(ctx, http.MethodGet, pagedPath("/api/admin/users", pageNum, limit), nil, &out); err != nil {
		return nil, PageMeta{}, err
	}
	return out.Data, out.Meta, nil
}

func (c *Client) AdminListMerchants(ctx context.Context, pageNum, limit int) ([]MerchantProfile, PageMeta, error) {
	var out page[MerchantProfile]
	if err := c.doJSON(ctx, http.MethodGet, pagedPath("/api/admin/merchants", pageNum, limit), nil, &out); err != nil {
		return nil, PageMeta{}, err
	}
	return out.Data, out.Meta, nil
}

func (c *Client) AdminListKYCJobs(ctx context.Context, status string, pageNum, limit int) ([]AdminKYCJob, PageMeta, error) {
	path := pagedPath("/api/admin/kyc", pageNum, limit)
	if status != "" {
		path += "&status=" + url.QueryEscape(status)
	}
	var out page[AdminKYCJob]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, PageMeta{}, err
	}
	return out.Data, out.Meta, nil
}

type kycDecisionRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note,omitempty"`
}

// AdminDecideKYC applies an approve / reject / flag decision to a job.
func (c *Client) AdminDecideKYC(ctx context.Context, jobID, decision, note string) error {
	req := kycDecisionRequest{Decision: decision, Note: note}
	return c.doJSON(ctx, http.MethodPost, "/api/admin/kyc/"+jobID+"/decision", req, nil)
}

func pagedPath(path string, pageNum, limit int) string {
	return fmt.Sprintf("%s?page=%d&limit=%d", path, pageNum, limit)
}
