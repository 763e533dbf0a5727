package respond

// SessionRespond is the public view of a tutoring session.
type SessionRespond struct {
	Uuid            string `json:"uuid"`
	Subject         string `json:"subject"`
	TutorName       string `json:"tutor_name"`
	Language        string `json:"language"`
	Status          string `json:"status"`
	StartedAt       string `json:"started_at"`
	EndedAt         string `json:"ended_at,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	MessageCount    int64  `json:"message_count"`
}

// StartSessionRespond is returned when a session opens. Messages holds the
// tutor's opening line.
type StartSessionRespond struct {
	Session  SessionRespond   `json:"session"`
	Messages []MessageRespond `json:"messages"`
}
