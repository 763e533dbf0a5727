package respond

// MessageRespond is one chat turn inside a session.
type MessageRespond struct {
	Uuid        int64    `json:"uuid,string"`
	SessionUuid string   `json:"session_uuid"`
	Sender      string   `json:"sender"`
	Content     string   `json:"content"`
	Attachments []string `json:"attachments,omitempty"`
	SendAt      string   `json:"send_at"`
}
