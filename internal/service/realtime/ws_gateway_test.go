package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lingua_tutor_server/pkg/errorx"
)

// recordingInbound captures routed frames for assertions.
type recordingInbound struct {
	mu       sync.Mutex
	texts    []string
	voice    []byte
	voiceLng string
	avatars  []string

	textErr error
}

func (h *recordingInbound) HandleText(ctx context.Context, sessionUuid, userUuid, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.texts = append(h.texts, content)
	return h.textErr
}

func (h *recordingInbound) HandleVoice(ctx context.Context, sessionUuid, userUuid string, audio []byte, language string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.voice = append([]byte(nil), audio...)
	h.voiceLng = language
	return "transcribed: " + string(audio), nil
}

func (h *recordingInbound) HandleAvatarRequest(ctx context.Context, sessionUuid, userUuid, text, tutorName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.avatars = append(h.avatars, text)
}

func dialGateway(t *testing.T, inbound InboundHandler) (*websocket.Conn, EventBroker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	broker := NewChannelBroker()
	go broker.Start()
	t.Cleanup(broker.Close)

	engine := gin.New()
	engine.GET("/ws", func(c *gin.Context) {
		JoinSession(c, broker, inbound, "T1", "U1")
	})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, broker
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ws read: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("frame decode: %v", err)
	}
	return frame
}

func TestSendMessageFrameRoutesToHandler(t *testing.T) {
	inbound := &recordingInbound{}
	conn, broker := dialGateway(t, inbound)

	if err := conn.WriteJSON(map[string]string{"type": "send-message", "content": "hola"}); err != nil {
		t.Fatalf("ws write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		inbound.mu.Lock()
		n := len(inbound.texts)
		inbound.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("send-message frame never reached the handler")
		}
		time.Sleep(5 * time.Millisecond)
	}
	inbound.mu.Lock()
	got := inbound.texts[0]
	inbound.mu.Unlock()
	if got != "hola" {
		t.Fatalf("content = %q", got)
	}

	// room events still reach the same socket
	waitForDispatch()
	if err := broker.Publish(context.Background(), SessionEvent{SessionUuid: "T1", Payload: []byte(`{"type":"new-message"}`)}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if frame := readFrame(t, conn); frame["type"] != "new-message" {
		t.Fatalf("frame = %v", frame)
	}
}

func TestSendMessageErrorComesBackToSender(t *testing.T) {
	inbound := &recordingInbound{textErr: errorx.New(errorx.CodeSessionNotActive, "this session has ended")}
	conn, _ := dialGateway(t, inbound)

	if err := conn.WriteJSON(map[string]string{"type": "send-message", "content": "hola"}); err != nil {
		t.Fatalf("ws write: %v", err)
	}
	frame := readFrame(t, conn)
	if frame["type"] != "error" {
		t.Fatalf("frame = %v", frame)
	}
	if msg, _ := frame["message"].(string); !strings.Contains(msg, "ended") {
		t.Fatalf("message = %q", msg)
	}
}

func TestVoiceFramesBufferAndTranscribe(t *testing.T) {
	inbound := &recordingInbound{}
	conn, _ := dialGateway(t, inbound)

	// binary audio before voice-start is ignored
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte("stray")); err != nil {
		t.Fatalf("ws write: %v", err)
	}

	if err := conn.WriteJSON(map[string]string{"type": "voice-start", "language": "es"}); err != nil {
		t.Fatalf("ws write: %v", err)
	}
	for _, chunk := range []string{"aud", "io"} {
		if err := conn.WriteMessage(websocket.BinaryMessage, []byte(chunk)); err != nil {
			t.Fatalf("ws write: %v", err)
		}
	}
	if err := conn.WriteJSON(map[string]string{"type": "voice-end"}); err != nil {
		t.Fatalf("ws write: %v", err)
	}

	frame := readFrame(t, conn)
	if frame["type"] != "voice-transcript" {
		t.Fatalf("frame = %v", frame)
	}
	if frame["text"] != "transcribed: audio" {
		t.Fatalf("text = %v", frame["text"])
	}

	inbound.mu.Lock()
	defer inbound.mu.Unlock()
	if string(inbound.voice) != "audio" || inbound.voiceLng != "es" {
		t.Fatalf("buffered %q lang %q", inbound.voice, inbound.voiceLng)
	}
}

func TestAvatarStartFrameRoutesToHandler(t *testing.T) {
	inbound := &recordingInbound{}
	conn, _ := dialGateway(t, inbound)

	if err := conn.WriteJSON(map[string]string{"type": "avatar-start", "text": "Hello!", "tutor_name": "Sam"}); err != nil {
		t.Fatalf("ws write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		inbound.mu.Lock()
		n := len(inbound.avatars)
		inbound.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("avatar-start frame never reached the handler")
		}
		time.Sleep(5 * time.Millisecond)
	}
	inbound.mu.Lock()
	defer inbound.mu.Unlock()
	if inbound.avatars[0] != "Hello!" {
		t.Fatalf("text = %q", inbound.avatars[0])
	}
}
