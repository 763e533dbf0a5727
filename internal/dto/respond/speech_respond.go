package respond

// SpeechToTextRespond carries a transcription result.
type SpeechToTextRespond struct {
	Text string `json:"text"`
}
