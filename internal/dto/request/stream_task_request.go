package request

// StreamTaskRequest has the live avatar speak the given text.
type StreamTaskRequest struct {
	SessionUuid string `json:"session_uuid" binding:"required"`
	Text        string `json:"text" binding:"required,max=4000"`
}
