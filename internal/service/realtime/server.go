package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Server aggregates the broker behind one lifecycle and implements the
// session layer's EventPublisher.
type Server struct {
	broker EventBroker
	mode   string
}

// NewServer picks the broker implementation from the configured mode,
// "kafka" for multi-instance deployments, the channel broker otherwise.
func NewServer(mode string) *Server {
	s := &Server{mode: mode}
	if mode == "kafka" {
		s.broker = NewKafkaBroker()
	} else {
		s.broker = NewChannelBroker()
	}
	return s
}

// Start runs the broker dispatch loop in the background.
func (s *Server) Start() {
	go s.broker.Start()
}

// Close shuts the broker down.
func (s *Server) Close() {
	s.broker.Close()
}

// Broker exposes the broker for the WebSocket gateway.
func (s *Server) Broker() EventBroker {
	return s.broker
}

// PublishSessionEvent marshals and publishes an event to a session room.
func (s *Server) PublishSessionEvent(sessionUuid string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("event marshal failed", zap.Error(err))
		return
	}
	if err := s.broker.Publish(context.Background(), SessionEvent{
		SessionUuid: sessionUuid,
		Payload:     payload,
	}); err != nil {
		zap.L().Error("event publish failed", zap.Error(err))
	}
}
