// Package api is the console's HTTP layer: a shared client that
// attaches bearer tokens, plus thin service wrappers that bind paths
// and payload types to it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// TokenSource supplies the current access token, or "" when the
// caller is unauthenticated.
type TokenSource func() string

// Client talks to the PayPSP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

func NewClient(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		token: token,
	}
}

// Attachment is one binary part of a multipart request.
type Attachment struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// doJSON issues a request with an optional JSON body and decodes the
// JSON response into out (when out is non-nil). Non-2xx responses are
// returned as *Error.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// doMultipart issues a POST with form fields and file attachments.
func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, files []Attachment, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return err
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return err
		}
		if _, err := part.Write(f.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
		}
	}
	return nil
}

// decodeError maps a failure body onto the tagged Error type. Bodies
// that are not JSON still produce a usable Error via the fallback.
func decodeError(status int, body []byte) *Error {
	var payload struct {
		Error   string            `json:"error"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(body, &payload)

	return &Error{
		Status:  status,
		Fields:  payload.Fields,
		Detail:  payload.Error,
		Message: payload.Message,
	}
}
