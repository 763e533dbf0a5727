package request

// CloseStreamRequest tears down a live avatar stream.
type CloseStreamRequest struct {
	SessionUuid string `json:"session_uuid" binding:"required"`
}
