package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lingua_tutor_server/internal/config"
	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/internal/provider/did"
	"lingua_tutor_server/internal/provider/heygen"
	"lingua_tutor_server/internal/provider/openai"
)

func unconfiguredService() *tutorService {
	return NewTutorService(
		openai.NewClient(config.OpenAIConfig{}),
		heygen.NewClient(config.HeyGenConfig{}),
		did.NewClient(config.DIDConfig{}),
	)
}

func testPersona() provider.Persona {
	return provider.Persona{
		UserName:  "Alice",
		TutorName: "Sam",
		Language:  "English",
		Subject:   "General Tutoring",
	}
}

func TestGenerateReplyFallsBackToCanned(t *testing.T) {
	svc := unconfiguredService()

	history := []provider.ChatMessage{
		{Sender: "user", Content: "hello"},
	}
	res := svc.GenerateReply(context.Background(), history, testPersona())
	if !res.Degraded {
		t.Fatal("expected degraded reply without an api key")
	}
	if res.Provider != "mock" {
		t.Fatalf("provider = %q, want mock", res.Provider)
	}
	if res.Text == "" {
		t.Fatal("canned reply must not be empty")
	}
	// greetings get a deterministic greeting back
	again := svc.GenerateReply(context.Background(), history, testPersona())
	if res.Text != again.Text {
		t.Fatal("canned reply for the same input must be deterministic")
	}
}

func TestGenerateReplyOpeningLine(t *testing.T) {
	svc := unconfiguredService()

	res := svc.GenerateReply(context.Background(), nil, testPersona())
	if !res.Degraded || res.Provider != "mock" {
		t.Fatalf("got provider=%q degraded=%v", res.Provider, res.Degraded)
	}
	if !strings.Contains(res.Text, "Sam") {
		t.Fatalf("opening line should introduce the tutor, got %q", res.Text)
	}
}

func TestGenerateAvatarVideoDemoTier(t *testing.T) {
	svc := unconfiguredService()

	res := svc.GenerateAvatarVideo(context.Background(), "Hello there!", "Sam", provider.VoiceOptions{})
	if !res.Degraded {
		t.Fatal("demo tier must be marked degraded")
	}
	if res.Provider != "demo" {
		t.Fatalf("provider = %q, want demo", res.Provider)
	}
	if res.IsLive {
		t.Fatal("demo clips are not live renders")
	}
	if res.VideoURL == "" || res.AudioURL == "" {
		t.Fatal("demo tier must always return asset urls")
	}
}

func TestGenerateAvatarVideoUnknownTutorGetsDefaultClip(t *testing.T) {
	svc := unconfiguredService()

	res := svc.GenerateAvatarVideo(context.Background(), "hi", "Zyx", provider.VoiceOptions{})
	if res.VideoURL != defaultDemoClip.videoURL {
		t.Fatalf("video url = %q, want default clip", res.VideoURL)
	}
}

func TestTalkDurationClamps(t *testing.T) {
	cases := []struct {
		textLen int
		want    int
	}{
		{2, 3},   // below the floor
		{100, 10},
		{300, 30}, // at the ceiling
		{500, 30}, // above the ceiling
	}
	for _, tc := range cases {
		got := TalkDuration(strings.Repeat("a", tc.textLen))
		if got != tc.want {
			t.Errorf("TalkDuration(len %d) = %d, want %d", tc.textLen, got, tc.want)
		}
	}
}

// failing heygen, unconfigured d-id: the cascade must land on the demo tier
// without surfacing the provider error.
func TestAvatarCascadeSwallowsTierFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	heygenClient := heygen.NewClient(config.HeyGenConfig{APIKey: "key"})
	heygenClient.BaseURL = server.URL

	svc := NewTutorService(
		openai.NewClient(config.OpenAIConfig{}),
		heygenClient,
		did.NewClient(config.DIDConfig{}),
	)

	res := svc.GenerateAvatarVideo(context.Background(), "hello", "Sam", provider.VoiceOptions{})
	if res.Provider != "demo" || !res.Degraded {
		t.Fatalf("got provider=%q degraded=%v, want demo/true", res.Provider, res.Degraded)
	}
}

// a job that never completes must stop at the attempt ceiling, then the
// cascade moves on.
func TestPollLoopTerminatesAtMaxAttempts(t *testing.T) {
	var polls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v2/video/generate"):
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"video_id": "v1"},
			})
		case strings.HasPrefix(r.URL.Path, "/v1/video_status.get"):
			polls++
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"status": "processing"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	heygenClient := heygen.NewClient(config.HeyGenConfig{APIKey: "key"})
	heygenClient.BaseURL = server.URL

	svc := NewTutorService(
		openai.NewClient(config.OpenAIConfig{}),
		heygenClient,
		did.NewClient(config.DIDConfig{}),
	)
	svc.pollInterval = time.Millisecond
	svc.pollMax = 3

	res := svc.GenerateAvatarVideo(context.Background(), "hello", "Sam", provider.VoiceOptions{})
	if polls != 3 {
		t.Fatalf("polled %d times, want 3", polls)
	}
	if res.Provider != "demo" {
		t.Fatalf("provider = %q, want demo after poll timeout", res.Provider)
	}
}

func TestAvatarCascadeUsesHeyGenResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v2/video/generate"):
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"video_id": "v1"},
			})
		case strings.HasPrefix(r.URL.Path, "/v1/video_status.get"):
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"status": "completed", "video_url": "https://cdn.example/v1.mp4"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	heygenClient := heygen.NewClient(config.HeyGenConfig{APIKey: "key"})
	heygenClient.BaseURL = server.URL

	svc := NewTutorService(
		openai.NewClient(config.OpenAIConfig{}),
		heygenClient,
		did.NewClient(config.DIDConfig{}),
	)
	svc.pollInterval = time.Millisecond

	res := svc.GenerateAvatarVideo(context.Background(), "hello", "Sam", provider.VoiceOptions{})
	if res.Provider != "heygen" || res.Degraded {
		t.Fatalf("got provider=%q degraded=%v, want heygen/false", res.Provider, res.Degraded)
	}
	if res.VideoURL != "https://cdn.example/v1.mp4" {
		t.Fatalf("video url = %q", res.VideoURL)
	}
	if res.IsLive {
		t.Fatal("a rendered clip is not a live stream")
	}
}
