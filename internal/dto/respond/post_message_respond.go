package respond

// PostMessageRespond is the tutor's reply to one learner turn. Degraded is
// true when the reply came from the offline fallback rather than the
// configured model.
type PostMessageRespond struct {
	UserMessage MessageRespond `json:"user_message"`
	Reply       MessageRespond `json:"reply"`
	Provider    string         `json:"provider"`
	Degraded    bool           `json:"degraded"`
}
