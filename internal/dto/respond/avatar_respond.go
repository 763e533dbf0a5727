package respond

// AvatarRespond is a rendered (or fallback) talking-avatar clip.
type AvatarRespond struct {
	VideoURL        string `json:"video_url"`
	AudioURL        string `json:"audio_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
	IsLive          bool   `json:"is_live"`
	Provider        string `json:"provider"`
	Degraded        bool   `json:"degraded"`
}
