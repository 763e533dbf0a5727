package request

// SessionHistoryRequest pages through the caller's past sessions.
type SessionHistoryRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
