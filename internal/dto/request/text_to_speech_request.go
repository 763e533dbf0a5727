package request

// TextToSpeechRequest synthesizes spoken audio for a piece of text.
type TextToSpeechRequest struct {
	Text    string `json:"text" binding:"required,max=4000"`
	VoiceID string `json:"voice_id"`
}
