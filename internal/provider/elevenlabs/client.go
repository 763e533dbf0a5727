// Package elevenlabs is the gateway client for text-to-speech synthesis.
// One POST, binary audio response. This capability has no fallback tier:
// a missing credential or a vendor error surfaces to the caller.
package elevenlabs

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

const defaultBaseURL = "https://api.elevenlabs.io"

// Client talks to the ElevenLabs API.
type Client struct {
	APIKey  string
	BaseURL string
	// DefaultVoiceID is used when a request names no voice.
	DefaultVoiceID string

	httpClient *http.Client
}

// NewClient builds a client from config.
func NewClient(cfg config.ElevenLabsConfig) *Client {
	return &Client{
		APIKey:         strings.TrimSpace(cfg.APIKey),
		BaseURL:        defaultBaseURL,
		DefaultVoiceID: strings.TrimSpace(cfg.VoiceID),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

type synthesizeRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings map[string]any `json:"voice_settings"`
}

// Synthesize converts text to mp3 bytes using the given voice (or the
// configured default). Fails loudly; there is deliberately no demo audio
// tier for raw TTS.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if !c.Configured() {
		return nil, provider.ErrNoCredential
	}
	if voiceID == "" {
		voiceID = c.DefaultVoiceID
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
		VoiceSettings: map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.BaseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs synthesize: status %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
