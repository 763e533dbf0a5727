// Package heygen is the gateway client for HeyGen avatar video jobs and
// live streaming sessions.
package heygen

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

const (
	defaultBaseURL  = "https://api.heygen.com"
	defaultAvatarID = "Kristin_public_3_20240108"
	defaultVoiceID  = "1bd001e7e50f421d891986aad5158bc8"
)

// Client talks to the HeyGen API. Auth is the X-Api-Key header.
type Client struct {
	APIKey   string
	BaseURL  string
	AvatarID string
	VoiceID  string

	httpClient *http.Client
}

// NewClient builds a client from config.
func NewClient(cfg config.HeyGenConfig) *Client {
	c := &Client{
		APIKey:   strings.TrimSpace(cfg.APIKey),
		BaseURL:  defaultBaseURL,
		AvatarID: strings.TrimSpace(cfg.AvatarID),
		VoiceID:  defaultVoiceID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	if c.AvatarID == "" {
		c.AvatarID = defaultAvatarID
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heygen %s: status %d: %s", path, resp.StatusCode, truncate(raw, 200))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("heygen %s: decode: %w", path, err)
		}
	}
	return nil
}

type generateVideoRequest struct {
	VideoInputs []videoInput `json:"video_inputs"`
	Dimension   dimension    `json:"dimension"`
}

type videoInput struct {
	Character character `json:"character"`
	Voice     voice     `json:"voice"`
}

type character struct {
	Type     string `json:"type"`
	AvatarID string `json:"avatar_id"`
}

type voice struct {
	Type      string  `json:"type"`
	InputText string  `json:"input_text"`
	VoiceID   string  `json:"voice_id"`
	Speed     float64 `json:"speed,omitempty"`
	Pitch     int     `json:"pitch,omitempty"`
}

type dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GenerateVideo submits an avatar video job and returns the video id.
func (c *Client) GenerateVideo(ctx context.Context, text string, opts provider.VoiceOptions) (string, error) {
	if !c.Configured() {
		return "", provider.ErrNoCredential
	}

	voiceID := opts.VoiceID
	if voiceID == "" {
		voiceID = c.VoiceID
	}
	body := generateVideoRequest{
		VideoInputs: []videoInput{{
			Character: character{Type: "avatar", AvatarID: c.AvatarID},
			Voice: voice{
				Type:      "text",
				InputText: text,
				VoiceID:   voiceID,
				Speed:     opts.Speed,
				Pitch:     opts.Pitch,
			},
		}},
		Dimension: dimension{Width: 1280, Height: 720},
	}

	var out struct {
		Data struct {
			VideoID string `json:"video_id"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v2/video/generate", body, &out); err != nil {
		return "", err
	}
	if out.Data.VideoID == "" {
		return "", fmt.Errorf("heygen generate video: empty video_id")
	}
	return out.Data.VideoID, nil
}

// VideoStatus polls a video job and normalizes the vendor status.
func (c *Client) VideoStatus(ctx context.Context, videoID string) (provider.JobStatus, error) {
	if !c.Configured() {
		return provider.JobStatus{}, provider.ErrNoCredential
	}

	var out struct {
		Data struct {
			Status   string `json:"status"`
			VideoURL string `json:"video_url"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/video_status.get?video_id="+videoID, nil, &out); err != nil {
		return provider.JobStatus{}, err
	}

	switch out.Data.Status {
	case "completed":
		return provider.JobStatus{State: provider.JobDone, URL: out.Data.VideoURL}, nil
	case "failed":
		return provider.JobStatus{State: provider.JobFailed}, nil
	default: // pending, processing, waiting
		return provider.JobStatus{State: provider.JobPending}, nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
