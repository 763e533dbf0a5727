package request

// PostMessageRequest appends one learner turn to an active session.
type PostMessageRequest struct {
	SessionUuid string   `json:"session_uuid" binding:"required"`
	Content     string   `json:"content" binding:"required,max=4000"`
	Attachments []string `json:"attachments" binding:"omitempty,dive,url"`
}
