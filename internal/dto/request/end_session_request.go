package request

// EndSessionRequest closes an active tutoring session.
type EndSessionRequest struct {
	SessionUuid string `json:"session_uuid" binding:"required"`
}
