package respond

// UserRespond is the public view of an account.
type UserRespond struct {
	Uuid        string `json:"uuid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Language    string `json:"language"`
	TutorName   string `json:"tutor_name"`
	CustomTutor bool   `json:"custom_tutor"`
	CreatedAt   string `json:"created_at"`
}
