package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"lingua_tutor_server/internal/provider"
)

// Transcribe converts spoken audio to text via the whisper endpoint.
// The vendor API takes a file upload, so the bytes are staged in a temp
// file that exists only for the duration of this call; it is removed
// unconditionally on every path.
func (c *Client) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("transcription unavailable: %w", provider.ErrNoCredential)
	}

	tmp, err := os.CreateTemp("", "transcribe-*.webm")
	if err != nil {
		return "", fmt.Errorf("transcribe: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return "", fmt.Errorf("transcribe: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("transcribe: close temp file: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", tmp.Name())
	if err != nil {
		return "", err
	}
	f, err := os.Open(tmp.Name())
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		f.Close()
		return "", err
	}
	f.Close()

	_ = writer.WriteField("model", "whisper-1")
	if code := languageCode(language); code != "" {
		_ = writer.WriteField("language", code)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai transcription: status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai transcription: decode: %w", err)
	}
	return strings.TrimSpace(parsed.Text), nil
}

// languageCode maps a display language to its ISO 639-1 code where known;
// whisper detects the language itself when the hint is omitted.
func languageCode(language string) string {
	switch strings.ToLower(language) {
	case "english":
		return "en"
	case "spanish":
		return "es"
	case "french":
		return "fr"
	case "german":
		return "de"
	case "italian":
		return "it"
	case "portuguese":
		return "pt"
	case "chinese", "mandarin":
		return "zh"
	case "japanese":
		return "ja"
	case "korean":
		return "ko"
	default:
		return ""
	}
}
