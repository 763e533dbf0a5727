// Package did is the gateway client for D-ID talking-avatar video jobs.
// Video rendering is asynchronous: CreateTalk submits a job, GetTalk polls
// it. Vendor statuses (created/started/done/error/rejected) are normalized
// to the shared three-state JobStatus.
package did

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lingua_tutor_server/internal/config"
	"lingua_tutor_server/internal/provider"
)

const defaultBaseURL = "https://api.d-id.com"

// Client talks to the D-ID API. Auth is basic with the raw API key.
type Client struct {
	APIKey  string
	BaseURL string
	// SourceURL is the presenter image used for generated talks.
	SourceURL string

	httpClient *http.Client
}

// NewClient builds a client from config.
func NewClient(cfg config.DIDConfig) *Client {
	return &Client{
		APIKey:    strings.TrimSpace(cfg.APIKey),
		BaseURL:   defaultBaseURL,
		SourceURL: strings.TrimSpace(cfg.SourceURL),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

type createTalkRequest struct {
	Script    talkScript `json:"script"`
	SourceURL string     `json:"source_url,omitempty"`
}

type talkScript struct {
	Type  string `json:"type"`
	Input string `json:"input"`
}

// CreateTalk submits a talking-avatar job and returns the talk id.
func (c *Client) CreateTalk(ctx context.Context, text string) (string, error) {
	if !c.Configured() {
		return "", provider.ErrNoCredential
	}

	body, err := json.Marshal(createTalkRequest{
		Script:    talkScript{Type: "text", Input: text},
		SourceURL: c.SourceURL,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/talks", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("d-id create talk: status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("d-id create talk: decode: %w", err)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("d-id create talk: empty id")
	}
	return parsed.ID, nil
}

// GetTalk polls a talk job and normalizes the vendor status.
func (c *Client) GetTalk(ctx context.Context, talkID string) (provider.JobStatus, error) {
	if !c.Configured() {
		return provider.JobStatus{}, provider.ErrNoCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/talks/"+talkID, nil)
	if err != nil {
		return provider.JobStatus{}, err
	}
	req.Header.Set("Authorization", "Basic "+c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return provider.JobStatus{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.JobStatus{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return provider.JobStatus{}, fmt.Errorf("d-id get talk: status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var parsed struct {
		Status    string `json:"status"`
		ResultURL string `json:"result_url"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return provider.JobStatus{}, fmt.Errorf("d-id get talk: decode: %w", err)
	}

	switch parsed.Status {
	case "done":
		return provider.JobStatus{State: provider.JobDone, URL: parsed.ResultURL}, nil
	case "error", "rejected":
		return provider.JobStatus{State: provider.JobFailed}, nil
	default: // created, started
		return provider.JobStatus{State: provider.JobPending}, nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
