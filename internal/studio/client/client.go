// Package client is the HTTP transport the studio uses against the
// memorial API: the create-or-update save call behind the autosave
// pipeline, plus the checkout and verification calls around publish.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"memorial-app/internal/domain/memorials"
	"memorial-app/internal/studio/autosave"
)

var ErrUnauthorized = errors.New("sign in required")

// APIError is a non-2xx answer that carried a machine-readable code,
// e.g. "slug_taken" or "already_paid".
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Save implements autosave.Saver: create when the draft has no id,
// update by id otherwise. Context cancellation aborts the request,
// which the pipeline treats as supersession, not failure.
func (c *Client) Save(ctx context.Context, draft *memorials.Memorial) (*autosave.SaveResult, error) {
	method := http.MethodPost
	path := "/memorials"
	if draft.ID != "" {
		method = http.MethodPut
		path = "/memorials/" + draft.ID
	}

	var saved memorials.Memorial
	if err := c.do(ctx, method, path, draft, &saved); err != nil {
		return nil, err
	}
	return &autosave.SaveResult{ID: saved.ID, Created: draft.ID == ""}, nil
}

// Get fetches a draft by its assigned identifier.
func (c *Client) Get(ctx context.Context, id string) (*memorials.Memorial, error) {
	var m memorials.Memorial
	if err := c.do(ctx, http.MethodGet, "/memorials/"+id, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CheckURL asks whether a custom URL is still available.
func (c *Client) CheckURL(ctx context.Context, customURL string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	path := "/memorials/check-url?u=" + url.QueryEscape(customURL)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// BeginCheckout starts the paid-publish flow for a draft and returns
// the provider's hosted checkout URL to redirect to.
func (c *Client) BeginCheckout(ctx context.Context, memorialID string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/memorials/"+memorialID+"/checkout", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// VerifyPayment runs the reconciliation fallback after returning from
// the hosted checkout flow.
func (c *Client) VerifyPayment(ctx context.Context, memorialID, sessionID string) (bool, error) {
	body := map[string]string{"session_id": sessionID}
	var out struct {
		Verified bool `json:"verified"`
	}
	if err := c.do(ctx, http.MethodPost, "/memorials/"+memorialID+"/verify-payment", body, &out); err != nil {
		return false, err
	}
	return out.Verified, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Unwrap so the pipeline can recognize cancellation.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
