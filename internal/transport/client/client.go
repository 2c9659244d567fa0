package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ameyer/url-shortener/internal/domain"
)

// Client represents an HTTP client for the URL shortener API
type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient creates a new URL shortener client
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateURL creates a short URL. alias and expiresAt (RFC 3339) are optional.
func (c *Client) CreateURL(ctx context.Context, originalURL string, alias, expiresAt *string) (*domain.CreateURLResponse, error) {
	reqBody := domain.CreateURLRequest{URL: originalURL, Alias: alias, ExpiresAt: expiresAt}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/urls", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		// Only the create path maps 400 to the conflict kind: a rejected
		// creation means the code or alias is already taken.
		if resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%s: %w", errorMessage(resp), domain.ErrConflict)
		}
		return nil, c.apiError(resp)
	}

	var result domain.CreateURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// GetURL retrieves information about a short URL
func (c *Client) GetURL(ctx context.Context, shortCode string) (*domain.URLInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/urls/"+shortCode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var info domain.URLInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &info, nil
}

// DeleteURL deletes a short URL
func (c *Client) DeleteURL(ctx context.Context, shortCode string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.serverURL+"/api/urls/"+shortCode, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.apiError(resp)
	}

	return nil
}

// GetAnalytics retrieves the analytics view for a short URL
func (c *Client) GetAnalytics(ctx context.Context, shortCode string) (*domain.URLAnalytics, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/urls/"+shortCode+"/analytics", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var analytics domain.URLAnalytics
	if err := json.NewDecoder(resp.Body).Decode(&analytics); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &analytics, nil
}

// apiError turns a non-success response into an error carrying the
// matching domain kind, so callers can classify with errors.Is. 400 is
// deliberately not mapped here; outside of create it just means the
// request was malformed.
func (c *Client) apiError(resp *http.Response) error {
	msg := errorMessage(resp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	case http.StatusGone:
		return fmt.Errorf("%s: %w", msg, domain.ErrGone)
	default:
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, msg)
	}
}

// errorMessage extracts the JSON error body, falling back to the status line.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return resp.Status
}
