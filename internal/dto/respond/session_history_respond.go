package respond

// SessionHistoryRespond is one page of the caller's past sessions.
type SessionHistoryRespond struct {
	Sessions []SessionRespond `json:"sessions"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}
