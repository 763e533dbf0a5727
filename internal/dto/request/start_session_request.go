package request

// StartSessionRequest opens a new tutoring session for the caller.
type StartSessionRequest struct {
	Subject string `json:"subject"`
}
