package heygen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lingua_tutor_server/internal/config"
	"lingua_tutor_server/internal/provider"
)

func testClient(baseURL string) *Client {
	c := NewClient(config.HeyGenConfig{APIKey: "hg-key", AvatarID: "Sam_public"})
	c.BaseURL = baseURL
	return c
}

func TestGenerateVideoSendsCharacterAndKey(t *testing.T) {
	var gotKey string
	var gotBody generateVideoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/video/generate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"data":{"video_id":"vid_42"}}`))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).GenerateVideo(context.Background(), "Good morning!", provider.VoiceOptions{})
	if err != nil {
		t.Fatalf("GenerateVideo: %v", err)
	}
	if id != "vid_42" {
		t.Fatalf("id = %q", id)
	}
	if gotKey != "hg-key" {
		t.Fatalf("X-Api-Key = %q", gotKey)
	}
	if len(gotBody.VideoInputs) != 1 {
		t.Fatalf("video_inputs = %+v", gotBody.VideoInputs)
	}
	in := gotBody.VideoInputs[0]
	if in.Character.AvatarID != "Sam_public" || in.Voice.InputText != "Good morning!" {
		t.Fatalf("input = %+v", in)
	}
	if in.Voice.VoiceID == "" {
		t.Fatal("voice id must default when no override is given")
	}
}

func TestGenerateVideoForwardsVoiceOptions(t *testing.T) {
	var gotBody generateVideoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"data":{"video_id":"vid_43"}}`))
	}))
	defer srv.Close()

	opts := provider.VoiceOptions{VoiceID: "v_custom", Speed: 1.2, Pitch: -5}
	if _, err := testClient(srv.URL).GenerateVideo(context.Background(), "hi", opts); err != nil {
		t.Fatalf("GenerateVideo: %v", err)
	}
	v := gotBody.VideoInputs[0].Voice
	if v.VoiceID != "v_custom" || v.Speed != 1.2 || v.Pitch != -5 {
		t.Fatalf("voice = %+v", v)
	}
}

func TestNewClientDefaultsAvatar(t *testing.T) {
	c := NewClient(config.HeyGenConfig{APIKey: "k"})
	if c.AvatarID == "" {
		t.Fatal("avatar id must default when unset")
	}
}

func TestGenerateVideoWithoutCredential(t *testing.T) {
	c := NewClient(config.HeyGenConfig{})
	if _, err := c.GenerateVideo(context.Background(), "hi", provider.VoiceOptions{}); !errors.Is(err, provider.ErrNoCredential) {
		t.Fatalf("err = %v, want ErrNoCredential", err)
	}
}

func TestVideoStatusNormalizesVendorStatuses(t *testing.T) {
	cases := []struct {
		vendor string
		state  provider.JobState
		url    string
	}{
		{"completed", provider.JobDone, "https://files.heygen.ai/out.mp4"},
		{"failed", provider.JobFailed, ""},
		{"processing", provider.JobPending, ""},
		{"waiting", provider.JobPending, ""},
	}
	for _, tc := range cases {
		t.Run(tc.vendor, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/video_status.get" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if r.URL.Query().Get("video_id") != "vid_42" {
					t.Errorf("video_id = %s", r.URL.Query().Get("video_id"))
				}
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]string{"status": tc.vendor, "video_url": tc.url},
				})
			}))
			defer srv.Close()

			status, err := testClient(srv.URL).VideoStatus(context.Background(), "vid_42")
			if err != nil {
				t.Fatalf("VideoStatus: %v", err)
			}
			if status.State != tc.state || status.URL != tc.url {
				t.Fatalf("status = %+v", status)
			}
		})
	}
}

func TestStreamingSessionLifecycle(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/v1/streaming.new":
			_, _ = w.Write([]byte(`{"data":{"session_id":"st_1","sdp":{"type":"offer","sdp":"v=0"},"ice_servers2":[{"urls":"stun:stun.example.com"}]}}`))
		case "/v1/streaming.start", "/v1/streaming.task", "/v1/streaming.stop":
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	ctx := context.Background()

	sess, err := c.NewStreamingSession(ctx)
	if err != nil {
		t.Fatalf("NewStreamingSession: %v", err)
	}
	if sess.SessionID != "st_1" || sess.SDP["type"] != "offer" || len(sess.ICEServers) != 1 {
		t.Fatalf("session = %+v", sess)
	}

	if err := c.StartStream(ctx, sess.SessionID, map[string]any{"type": "answer"}); err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	if err := c.SendText(ctx, sess.SessionID, "Say hello"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if err := c.CloseStream(ctx, sess.SessionID); err != nil {
		t.Fatalf("CloseStream: %v", err)
	}

	want := []string{"/v1/streaming.new", "/v1/streaming.start", "/v1/streaming.task", "/v1/streaming.stop"}
	if len(paths) != len(want) {
		t.Fatalf("calls = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("call %d = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestCreateStreamingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/streaming.create_token" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"token":"tok_abc"}}`))
	}))
	defer srv.Close()

	token, err := testClient(srv.URL).CreateStreamingToken(context.Background())
	if err != nil {
		t.Fatalf("CreateStreamingToken: %v", err)
	}
	if token != "tok_abc" {
		t.Fatalf("token = %q", token)
	}
}
