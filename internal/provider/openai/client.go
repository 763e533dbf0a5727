// Package openai is the gateway client for text generation and audio
// transcription. Hand-rolled HTTP client; requests carry bearer auth and
// JSON bodies against the chat-completions and transcription endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lingua_tutor_server/internal/config"
	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/pkg/enum/message/sender_enum"
)

const defaultBaseURL = "https://api.openai.com"

// Client talks to the OpenAI API.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string

	httpClient *http.Client
}

// NewClient builds a client from config. A missing key does not error here;
// calls fail with provider.ErrNoCredential so the orchestrator can degrade.
func NewClient(cfg config.OpenAIConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		BaseURL: baseURL,
		Model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

// chat-completions wire types.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// systemPrompt builds the fixed tutor persona prompt.
func systemPrompt(p provider.Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a friendly and patient %s tutor.", p.TutorName, p.Language)
	fmt.Fprintf(&b, " Your student is named %s.", p.UserName)
	if p.Subject != "" {
		fmt.Fprintf(&b, " Today's topic is %s.", p.Subject)
	}
	b.WriteString(" Keep replies short and conversational, correct mistakes gently,")
	fmt.Fprintf(&b, " and always answer in %s.", p.Language)
	return b.String()
}

// GenerateText sends the persona prompt plus the conversation history and
// returns the assistant reply. An empty history asks for an opening line.
func (c *Client) GenerateText(ctx context.Context, history []provider.ChatMessage, p provider.Persona) (string, error) {
	if !c.Configured() {
		return "", provider.ErrNoCredential
	}

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt(p)})
	for _, m := range history {
		role := "user"
		if m.Sender == sender_enum.AI {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Content})
	}
	if len(history) == 0 {
		messages = append(messages, chatMessage{
			Role:    "user",
			Content: "Greet me and open our tutoring session.",
		})
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
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
		return "", fmt.Errorf("openai chat completions: status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai chat completions: decode: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai chat completions: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai chat completions: empty choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
