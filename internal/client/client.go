// Package client talks to a remote persistence gateway over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

// Client implements conversation.Gateway against the gateway's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the gateway rooted at baseURL (e.g. http://localhost:3001).
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned status %d", e.Status)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.Status, e.Message)
}

// SaveMessage posts a message to /api/conversations.
func (c *Client) SaveMessage(ctx context.Context, msg chat.Message) error {
	var record chat.Record
	return c.post(ctx, "/api/conversations", msg, &record)
}

// SaveLead posts a lead to /api/leads.
func (c *Client) SaveLead(ctx context.Context, lead chat.Lead) error {
	var record chat.LeadRecord
	return c.post(ctx, "/api/leads", lead, &record)
}

// ListLeads fetches every lead stored by the gateway.
func (c *Client) ListLeads(ctx context.Context) ([]chat.LeadRecord, error) {
	var leads []chat.LeadRecord
	if err := c.do(ctx, http.MethodGet, "/api/leads", nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &StatusError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
