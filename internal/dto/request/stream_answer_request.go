package request

// StreamAnswerRequest submits the browser's SDP answer to activate a
// previously opened live avatar stream.
type StreamAnswerRequest struct {
	SessionUuid string         `json:"session_uuid" binding:"required"`
	SDPAnswer   map[string]any `json:"sdp_answer" binding:"required"`
}
