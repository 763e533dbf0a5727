package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/dto/respond"
	"lingua_tutor_server/internal/handler"
	"lingua_tutor_server/internal/https_server"
	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/internal/service"
	"lingua_tutor_server/internal/service/realtime"
	"lingua_tutor_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type stubUserService struct{}

type stubSessionService struct{}

type stubTutorService struct{}

type stubVoiceService struct{}

type stubStreamService struct{}

type stubAuthService struct{}

func (s stubUserService) Register(req request.RegisterRequest) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{}, nil
}
func (s stubUserService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{}, nil
}
func (s stubUserService) RefreshToken(req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error) {
	return &respond.RefreshTokenRespond{}, nil
}
func (s stubUserService) GetProfile(userID string) (*respond.UserRespond, error) {
	return &respond.UserRespond{Uuid: userID, TutorName: "Sam"}, nil
}
func (s stubUserService) UpdateProfile(userID string, req request.UpdateProfileRequest) (*respond.UserRespond, error) {
	return &respond.UserRespond{Uuid: userID}, nil
}

func (s stubSessionService) StartSession(ctx context.Context, userID string, req request.StartSessionRequest) (*respond.StartSessionRespond, error) {
	return &respond.StartSessionRespond{}, nil
}
func (s stubSessionService) PostMessage(ctx context.Context, userID string, req request.PostMessageRequest) (*respond.PostMessageRespond, error) {
	return &respond.PostMessageRespond{}, nil
}
func (s stubSessionService) EndSession(userID string, req request.EndSessionRequest) (*respond.SessionRespond, error) {
	return &respond.SessionRespond{}, nil
}
func (s stubSessionService) GetSessionHistory(userID string, req request.SessionHistoryRequest) (*respond.SessionHistoryRespond, error) {
	return &respond.SessionHistoryRespond{}, nil
}
func (s stubSessionService) GetSession(userID, sessionUuid string) (*respond.SessionRespond, error) {
	return &respond.SessionRespond{Uuid: sessionUuid}, nil
}
func (s stubSessionService) GetSessionMessages(userID, sessionUuid string) ([]respond.MessageRespond, error) {
	return []respond.MessageRespond{}, nil
}

func (s stubTutorService) GenerateReply(ctx context.Context, history []provider.ChatMessage, p provider.Persona) provider.TextResult {
	return provider.TextResult{Text: "ok", Provider: "mock", Degraded: true}
}
func (s stubTutorService) GenerateAvatarVideo(ctx context.Context, text, tutorName string, voice provider.VoiceOptions) provider.MediaResult {
	return provider.MediaResult{VideoURL: "/static/demo/sam.mp4", Provider: "demo", Degraded: true}
}
func (s stubTutorService) HasLiveVideoProvider() bool { return false }

func (s stubVoiceService) SpeechToText(ctx context.Context, audio []byte, language string) (string, error) {
	return "hello", nil
}
func (s stubVoiceService) TextToSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	return []byte{0xff, 0xfb}, nil
}

func (s stubStreamService) StartStream(ctx context.Context, sessionUuid, initialText string) (*respond.StartStreamRespond, error) {
	return &respond.StartStreamRespond{SessionID: "st_1"}, nil
}
func (s stubStreamService) SubmitAnswer(ctx context.Context, sessionUuid string, sdpAnswer map[string]any) error {
	return nil
}
func (s stubStreamService) SendText(ctx context.Context, sessionUuid, text string) error { return nil }
func (s stubStreamService) StopStream(ctx context.Context, sessionUuid string) error     { return nil }
func (s stubStreamService) StreamingToken(ctx context.Context) (string, error) {
	return "tok_test", nil
}

func (s stubAuthService) ValidateTokenID(userID, tokenID string) (bool, error) { return true, nil }

func mustJSON(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, client *http.Client, method, url string, body io.Reader, authHeader string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request %s %s: %v", method, url, err)
	}
	return resp
}

func requireNot5xxOr404(t *testing.T, path string, resp *http.Response) {
	t.Helper()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		t.Fatalf("%s status=%d", path, resp.StatusCode)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret", 15, 168)
	if err := handler.InitTrans("en"); err != nil {
		t.Fatalf("init translator: %v", err)
	}

	rt := realtime.NewServer("channel")
	rt.Start()
	t.Cleanup(rt.Close)

	svcs := &service.Services{
		User:    stubUserService{},
		Session: stubSessionService{},
		Tutor:   stubTutorService{},
		Voice:   stubVoiceService{},
		Stream:  stubStreamService{},
		Auth:    stubAuthService{},
	}

	engine := https_server.Init(handler.NewHandlers(svcs, rt))
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return server
}

func TestAllHTTPAndWebSocketEndpoints_Smoke(t *testing.T) {
	server := newTestServer(t)
	client := &http.Client{Timeout: 5 * time.Second}

	accessToken, err := jwt.GenerateAccessToken("U_TEST")
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	authHeader := "Bearer " + accessToken

	refreshToken, _, err := jwt.GenerateRefreshToken("U_TEST")
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	// public endpoints
	resp := doReq(t, client, http.MethodPost, server.URL+"/api/auth/register", mustJSON(t, map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	}), "")
	requireNot5xxOr404(t, "/api/auth/register", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/api/auth/login", mustJSON(t, map[string]any{
		"email":    "alice@example.com",
		"password": "secret123",
	}), "")
	requireNot5xxOr404(t, "/api/auth/login", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/api/auth/refresh", mustJSON(t, map[string]any{
		"refresh_token": refreshToken,
	}), "")
	requireNot5xxOr404(t, "/api/auth/refresh", resp)
	_ = resp.Body.Close()

	// profile
	resp = doReq(t, client, http.MethodGet, server.URL+"/api/user/profile", nil, authHeader)
	requireNot5xxOr404(t, "/api/user/profile", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPut, server.URL+"/api/user/profile", mustJSON(t, map[string]any{
		"tutor_name": "Maria",
	}), authHeader)
	requireNot5xxOr404(t, "PUT /api/user/profile", resp)
	_ = resp.Body.Close()

	// session lifecycle
	resp = doReq(t, client, http.MethodPost, server.URL+"/api/session/start", mustJSON(t, map[string]any{
		"subject": "Travel",
	}), authHeader)
	requireNot5xxOr404(t, "/api/session/start", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/api/session/message", mustJSON(t, map[string]any{
		"session_uuid": "T_TEST",
		"content":      "hello",
	}), authHeader)
	requireNot5xxOr404(t, "/api/session/message", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPut, server.URL+"/api/session/end", mustJSON(t, map[string]any{
		"session_uuid": "T_TEST",
	}), authHeader)
	requireNot5xxOr404(t, "/api/session/end", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/api/session/history?page=1&page_size=10", nil, authHeader)
	requireNot5xxOr404(t, "/api/session/history", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/api/session/messages?session_uuid=T_TEST", nil, authHeader)
	requireNot5xxOr404(t, "/api/session/messages", resp)
	_ = resp.Body.Close()

	// voice
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("audio", "clip.webm")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("not-really-audio"))
	_ = mw.WriteField("language", "en")
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/voice/speech-to-text", &form)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("speech-to-text: %v", err)
	}
	requireNot5xxOr404(t, "/api/voice/speech-to-text", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/api/voice/text-to-speech", mustJSON(t, map[string]any{
		"text": "hello learner",
	}), authHeader)
	requireNot5xxOr404(t, "/api/voice/text-to-speech", resp)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "audio/mpeg") {
		t.Fatalf("text-to-speech content type = %q", ct)
	}
	_ = resp.Body.Close()

	// avatar
	resp = doReq(t, client, http.MethodPost, server.URL+"/api/avatar/generate", mustJSON(t, map[string]any{
		"text": "Good morning!",
	}), authHeader)
	requireNot5xxOr404(t, "/api/avatar/generate", resp)
	_ = resp.Body.Close()

	// live streaming
	resp = doReq(t, client, http.MethodPost, server.URL+"/api/video/start-stream", mustJSON(t, map[string]any{
		"session_uuid": "T_TEST",
	}), authHeader)
	requireNot5xxOr404(t, "/api/video/start-stream", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/api/video/submit-answer", mustJSON(t, map[string]any{
		"session_uuid": "T_TEST",
		"sdp_answer":   map[string]any{"type": "answer"},
	}), authHeader)
	requireNot5xxOr404(t, "/api/video/submit-answer", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/api/video/stream-task", mustJSON(t, map[string]any{
		"session_uuid": "T_TEST",
		"text":         "Say hello",
	}), authHeader)
	requireNot5xxOr404(t, "/api/video/stream-task", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/api/video/close-stream", mustJSON(t, map[string]any{
		"session_uuid": "T_TEST",
	}), authHeader)
	requireNot5xxOr404(t, "/api/video/close-stream", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/api/heygen/streaming-token", nil, authHeader)
	requireNot5xxOr404(t, "/api/heygen/streaming-token", resp)
	_ = resp.Body.Close()

	// websocket join; browsers cannot set headers on upgrade, so the token
	// rides the query string
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?session_uuid=T_TEST&token=" + accessToken
	wsConn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	if wsResp != nil {
		_ = wsResp.Body.Close()
	}
	_ = wsConn.Close()
}

func TestAuthedEndpointsRejectMissingToken(t *testing.T) {
	server := newTestServer(t)
	client := &http.Client{Timeout: 5 * time.Second}

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPost, "/api/session/start"},
		{http.MethodPost, "/api/avatar/generate"},
		{http.MethodPost, "/api/heygen/streaming-token"},
	}
	for _, p := range paths {
		resp := doReq(t, client, p.method, server.URL+p.path, nil, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s status=%d, want 401", p.method, p.path, resp.StatusCode)
		}
		_ = resp.Body.Close()
	}

	resp := doReq(t, client, http.MethodGet, server.URL+"/api/user/profile", nil, "Bearer not-a-token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token status=%d, want 401", resp.StatusCode)
	}
	_ = resp.Body.Close()
}
