package heygen

import (
	"context"
	"fmt"
	"net/http"

	"lingua_tutor_server/internal/provider"
)

// StreamSession holds the connection parameters of a live avatar stream.
// The SDP offer and ICE servers are relayed to the browser, which completes
// the WebRTC handshake directly with HeyGen.
type StreamSession struct {
	SessionID  string         `json:"session_id"`
	SDP        map[string]any `json:"sdp"`
	ICEServers []any          `json:"ice_servers"`
}

// NewStreamingSession opens a live avatar session and returns its WebRTC offer.
func (c *Client) NewStreamingSession(ctx context.Context) (*StreamSession, error) {
	if !c.Configured() {
		return nil, provider.ErrNoCredential
	}

	body := map[string]any{
		"quality":   "medium",
		"avatar_id": c.AvatarID,
	}
	var out struct {
		Data struct {
			SessionID  string         `json:"session_id"`
			SDP        map[string]any `json:"sdp"`
			ICEServers []any          `json:"ice_servers2"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/streaming.new", body, &out); err != nil {
		return nil, err
	}
	if out.Data.SessionID == "" {
		return nil, fmt.Errorf("heygen streaming.new: empty session_id")
	}
	return &StreamSession{
		SessionID:  out.Data.SessionID,
		SDP:        out.Data.SDP,
		ICEServers: out.Data.ICEServers,
	}, nil
}

// StartStream submits the client's SDP answer to activate the session.
func (c *Client) StartStream(ctx context.Context, sessionID string, sdpAnswer map[string]any) error {
	if !c.Configured() {
		return provider.ErrNoCredential
	}
	body := map[string]any{
		"session_id": sessionID,
		"sdp":        sdpAnswer,
	}
	return c.doJSON(ctx, http.MethodPost, "/v1/streaming.start", body, nil)
}

// SendText has the live avatar speak the given text.
func (c *Client) SendText(ctx context.Context, sessionID, text string) error {
	if !c.Configured() {
		return provider.ErrNoCredential
	}
	body := map[string]any{
		"session_id": sessionID,
		"text":       text,
	}
	return c.doJSON(ctx, http.MethodPost, "/v1/streaming.task", body, nil)
}

// CloseStream tears down a live avatar session.
func (c *Client) CloseStream(ctx context.Context, sessionID string) error {
	if !c.Configured() {
		return provider.ErrNoCredential
	}
	body := map[string]any{
		"session_id": sessionID,
	}
	return c.doJSON(ctx, http.MethodPost, "/v1/streaming.stop", body, nil)
}

// CreateStreamingToken mints a short-lived token for browser-side SDK use,
// so the long-lived API key never leaves the server.
func (c *Client) CreateStreamingToken(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", provider.ErrNoCredential
	}
	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/streaming.create_token", nil, &out); err != nil {
		return "", err
	}
	if out.Data.Token == "" {
		return "", fmt.Errorf("heygen streaming.create_token: empty token")
	}
	return out.Data.Token, nil
}
