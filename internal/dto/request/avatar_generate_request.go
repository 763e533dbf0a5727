package request

// AvatarGenerateRequest renders an avatar video speaking the given text.
// TutorName overrides the caller's configured tutor for this one clip.
// Voice, Speed and Pitch tune the synthesized voice where the rendering
// provider supports it; zero values mean the provider default.
type AvatarGenerateRequest struct {
	Text      string  `json:"text" binding:"required,max=4000"`
	TutorName string  `json:"tutor_name"`
	Voice     string  `json:"voice"`
	Speed     float64 `json:"speed" binding:"omitempty,gt=0,lte=2"`
	Pitch     int     `json:"pitch" binding:"omitempty,gte=-50,lte=50"`
}
