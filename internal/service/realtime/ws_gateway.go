package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"lingua_tutor_server/pkg/constants"
)

// maxVoiceBytes bounds the audio a single recording may buffer.
const maxVoiceBytes = 25 << 20

// InboundFrame is the wire shape of a client-originated text frame.
type InboundFrame struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Language  string `json:"language"`
	Text      string `json:"text"`
	TutorName string `json:"tutor_name"`
}

// InboundHandler processes client-originated frames. Implementations route
// them into the business services; fan-out back to the room happens there.
type InboundHandler interface {
	// HandleText processes one learner chat turn.
	HandleText(ctx context.Context, sessionUuid, userUuid, content string) error
	// HandleVoice transcribes a finished voice recording.
	HandleVoice(ctx context.Context, sessionUuid, userUuid string, audio []byte, language string) (string, error)
	// HandleAvatarRequest renders an avatar clip and publishes the result
	// to the session room.
	HandleAvatarRequest(ctx context.Context, sessionUuid, userUuid, text, tutorName string)
}

// SessionConn is one WebSocket connection joined to a session room.
type SessionConn struct {
	Conn        *websocket.Conn
	SessionUuid string
	UserUuid    string
	Send        chan []byte

	// voice recording state, owned by readLoop
	recording bool
	voiceBuf  []byte
	voiceLang string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// cross-origin frontends are expected, origin policy lives in CORS config
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// reply queues a frame for this connection only, dropping it when the send
// buffer is full.
func (c *SessionConn) reply(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

// readLoop drains client frames and routes them through handler. A read
// error means the client went away. handler may be nil, in which case
// frames are treated as keepalives.
func (c *SessionConn) readLoop(broker EventBroker, handler InboundHandler) {
	defer broker.Leave(c)
	ctx := context.Background()
	for {
		kind, payload, err := c.Conn.ReadMessage()
		if err != nil {
			zap.L().Info("ws client disconnected",
				zap.String("session", c.SessionUuid),
				zap.String("user", c.UserUuid))
			return
		}
		if handler == nil {
			continue
		}

		if kind == websocket.BinaryMessage {
			// audio chunks of an in-progress recording
			if !c.recording {
				continue
			}
			if len(c.voiceBuf)+len(payload) > maxVoiceBytes {
				c.recording = false
				c.voiceBuf = nil
				c.reply(map[string]any{"type": "error", "message": "recording too large"})
				continue
			}
			c.voiceBuf = append(c.voiceBuf, payload...)
			continue
		}

		var frame InboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			continue
		}
		switch frame.Type {
		case "send-message":
			if err := handler.HandleText(ctx, c.SessionUuid, c.UserUuid, frame.Content); err != nil {
				c.reply(map[string]any{"type": "error", "message": err.Error()})
			}
		case "voice-start":
			c.recording = true
			c.voiceBuf = nil
			c.voiceLang = frame.Language
		case "voice-end":
			if !c.recording {
				continue
			}
			audio, lang := c.voiceBuf, c.voiceLang
			c.recording = false
			c.voiceBuf = nil
			text, err := handler.HandleVoice(ctx, c.SessionUuid, c.UserUuid, audio, lang)
			if err != nil {
				c.reply(map[string]any{"type": "error", "message": err.Error()})
				continue
			}
			c.reply(map[string]any{"type": "voice-transcript", "text": text})
		case "avatar-start":
			// rendering polls the provider, keep the read loop responsive
			go handler.HandleAvatarRequest(ctx, c.SessionUuid, c.UserUuid, frame.Text, frame.TutorName)
		}
	}
}

// writeLoop pushes room events to the client until Send closes.
func (c *SessionConn) writeLoop() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for payload := range c.Send {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			zap.L().Error("ws write failed", zap.Error(err))
			return
		}
	}
}

// JoinSession upgrades the request and attaches the client to the session
// room. handler routes client-originated frames and may be nil.
func JoinSession(c *gin.Context, broker EventBroker, handler InboundHandler, sessionUuid, userUuid string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade failed", zap.Error(err))
		return
	}
	client := &SessionConn{
		Conn:        conn,
		SessionUuid: sessionUuid,
		UserUuid:    userUuid,
		Send:        make(chan []byte, constants.CHANNEL_SIZE),
	}
	broker.Join(client)
	go client.writeLoop()
	go client.readLoop(broker, handler)
	zap.L().Info("ws client joined",
		zap.String("session", sessionUuid),
		zap.String("user", userUuid))
}
