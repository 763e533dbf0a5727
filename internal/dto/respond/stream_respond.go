package respond

// StartStreamRespond relays the provider's WebRTC offer to the browser.
type StartStreamRespond struct {
	SessionID  string         `json:"session_id"`
	SDP        map[string]any `json:"sdp"`
	ICEServers []any          `json:"ice_servers"`
}

// StreamingTokenRespond carries a short-lived browser-side streaming token.
type StreamingTokenRespond struct {
	Token string `json:"token"`
}
