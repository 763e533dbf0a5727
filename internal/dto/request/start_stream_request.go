package request

// StartStreamRequest opens a live avatar stream bound to a tutoring session.
// InitialMessage, when set, is spoken as soon as the stream goes live.
type StartStreamRequest struct {
	SessionUuid    string `json:"session_uuid" binding:"required"`
	InitialMessage string `json:"initial_message"`
}
