// Package stream tracks live avatar streams per tutoring session. The
// registry is process-local; all mutation goes through the manager's
// mutex.
package stream

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"lingua_tutor_server/internal/dto/respond"
	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/internal/provider/heygen"
	"lingua_tutor_server/pkg/errorx"
)

// streamState is one live avatar stream.
type streamState struct {
	providerSessionID string
	isActive          bool
	pendingText       string // spoken once the stream goes live
}

// EventPublisher notifies a session's room about stream lifecycle changes.
// Nil disables fan-out.
type EventPublisher interface {
	PublishSessionEvent(sessionUuid string, event any)
}

type streamService struct {
	heygen *heygen.Client
	events EventPublisher

	mu      sync.Mutex
	streams map[string]*streamState // tutoring session uuid -> stream
}

// NewStreamService wires the live avatar provider. events may be nil.
func NewStreamService(heygenClient *heygen.Client, events EventPublisher) *streamService {
	return &streamService{
		heygen:  heygenClient,
		events:  events,
		streams: make(map[string]*streamState),
	}
}

// StartStream opens a provider stream for the tutoring session and returns
// the WebRTC offer the browser must answer. initialText, when non-empty, is
// queued and spoken as soon as the browser's answer activates the stream.
func (s *streamService) StartStream(ctx context.Context, sessionUuid, initialText string) (*respond.StartStreamRespond, error) {
	s.mu.Lock()
	if st, ok := s.streams[sessionUuid]; ok && st.isActive {
		s.mu.Unlock()
		return nil, errorx.New(errorx.CodeSessionActive, "a stream is already running for this session")
	}
	s.mu.Unlock()

	providerSession, err := s.heygen.NewStreamingSession(ctx)
	if err != nil {
		if errors.Is(err, provider.ErrNoCredential) {
			return nil, errorx.New(errorx.CodeProviderError, "live avatar streaming is not configured")
		}
		zap.L().Error("stream open failed", zap.Error(err))
		return nil, errorx.Wrap(err, errorx.CodeProviderError, "could not open live avatar stream")
	}

	s.mu.Lock()
	s.streams[sessionUuid] = &streamState{
		providerSessionID: providerSession.SessionID,
		isActive:          false, // activated by SubmitAnswer
		pendingText:       initialText,
	}
	s.mu.Unlock()

	return &respond.StartStreamRespond{
		SessionID:  providerSession.SessionID,
		SDP:        providerSession.SDP,
		ICEServers: providerSession.ICEServers,
	}, nil
}

// SubmitAnswer relays the browser's SDP answer and marks the stream active.
func (s *streamService) SubmitAnswer(ctx context.Context, sessionUuid string, sdpAnswer map[string]any) error {
	providerSessionID, _, err := s.lookup(sessionUuid)
	if err != nil {
		return err
	}

	if err := s.heygen.StartStream(ctx, providerSessionID, sdpAnswer); err != nil {
		zap.L().Error("stream activation failed", zap.Error(err))
		return errorx.Wrap(err, errorx.CodeProviderError, "could not activate live avatar stream")
	}

	s.mu.Lock()
	// the entry may have been torn down while the provider call was in flight
	var pending string
	if st, ok := s.streams[sessionUuid]; ok {
		st.isActive = true
		pending = st.pendingText
		st.pendingText = ""
	}
	s.mu.Unlock()

	if pending != "" {
		if err := s.heygen.SendText(ctx, providerSessionID, pending); err != nil {
			// the stream is up, the greeting is best effort
			zap.L().Warn("initial stream text failed", zap.Error(err))
		}
	}

	if s.events != nil {
		s.events.PublishSessionEvent(sessionUuid, map[string]any{
			"type": "avatar-stream",
		})
	}
	return nil
}

// SendText has the live avatar speak the given text.
func (s *streamService) SendText(ctx context.Context, sessionUuid, text string) error {
	providerSessionID, active, err := s.lookup(sessionUuid)
	if err != nil {
		return err
	}
	if !active {
		return errorx.New(errorx.CodeSessionNotActive, "the stream is not active yet")
	}

	if err := s.heygen.SendText(ctx, providerSessionID, text); err != nil {
		zap.L().Error("stream task failed", zap.Error(err))
		return errorx.Wrap(err, errorx.CodeProviderError, "live avatar did not accept the text")
	}
	return nil
}

// StopStream tears the stream down. Stopping an unknown session is a no-op.
func (s *streamService) StopStream(ctx context.Context, sessionUuid string) error {
	s.mu.Lock()
	st, ok := s.streams[sessionUuid]
	if ok {
		delete(s.streams, sessionUuid)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}

	if err := s.heygen.CloseStream(ctx, st.providerSessionID); err != nil {
		// the registry entry is already gone, provider-side cleanup is best effort
		zap.L().Warn("stream close failed", zap.Error(err))
	}
	if s.events != nil {
		s.events.PublishSessionEvent(sessionUuid, map[string]any{
			"type": "avatar-end",
		})
	}
	return nil
}

// StreamingToken mints a short-lived token for browser-side SDK use.
func (s *streamService) StreamingToken(ctx context.Context) (string, error) {
	token, err := s.heygen.CreateStreamingToken(ctx)
	if err != nil {
		if errors.Is(err, provider.ErrNoCredential) {
			return "", errorx.New(errorx.CodeProviderError, "live avatar streaming is not configured")
		}
		zap.L().Error("streaming token failed", zap.Error(err))
		return "", errorx.Wrap(err, errorx.CodeProviderError, "could not create streaming token")
	}
	return token, nil
}

// lookup snapshots the stream under the mutex so callers never touch
// streamState fields outside of it.
func (s *streamService) lookup(sessionUuid string) (providerSessionID string, active bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.streams[sessionUuid]
	if !ok {
		return "", false, errorx.New(errorx.CodeNotFound, "no stream for this session")
	}
	return st.providerSessionID, st.isActive, nil
}
