// Package service defines the business-layer interfaces consumed by the
// handler layer. Handlers depend on these, not on the concrete
// implementations, so tests can substitute stubs.
package service

import (
	"context"

	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/dto/respond"
	"lingua_tutor_server/internal/provider"
)

// UserService covers accounts and authentication.
type UserService interface {
	// Register creates an account and signs the user in.
	Register(req request.RegisterRequest) (*respond.LoginRespond, error)
	// Login verifies credentials and issues a token pair.
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// RefreshToken rotates a valid refresh token into a new pair.
	RefreshToken(req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error)
	// GetProfile returns the caller's account.
	GetProfile(userID string) (*respond.UserRespond, error)
	// UpdateProfile applies the non-nil fields of the request.
	UpdateProfile(userID string, req request.UpdateProfileRequest) (*respond.UserRespond, error)
}

// SessionService covers the tutoring session lifecycle.
type SessionService interface {
	// StartSession opens a session; a user holds at most one active session.
	StartSession(ctx context.Context, userID string, req request.StartSessionRequest) (*respond.StartSessionRespond, error)
	// PostMessage appends one learner turn and the tutor's reply.
	PostMessage(ctx context.Context, userID string, req request.PostMessageRequest) (*respond.PostMessageRespond, error)
	// EndSession closes a session; repeat calls are no-ops.
	EndSession(userID string, req request.EndSessionRequest) (*respond.SessionRespond, error)
	// GetSessionHistory pages through the caller's sessions, newest first.
	GetSessionHistory(userID string, req request.SessionHistoryRequest) (*respond.SessionHistoryRespond, error)
	// GetSession returns one of the caller's sessions.
	GetSession(userID, sessionUuid string) (*respond.SessionRespond, error)
	// GetSessionMessages returns a session's full transcript in order.
	GetSessionMessages(userID, sessionUuid string) ([]respond.MessageRespond, error)
}

// TutorService is the provider fallback cascade.
type TutorService interface {
	// GenerateReply produces the tutor's next turn; never errors, the last
	// tier is canned text.
	GenerateReply(ctx context.Context, history []provider.ChatMessage, p provider.Persona) provider.TextResult
	// GenerateAvatarVideo renders a talking-avatar clip; never errors, the
	// last tier is a bundled demo clip.
	GenerateAvatarVideo(ctx context.Context, text, tutorName string, voice provider.VoiceOptions) provider.MediaResult
	// HasLiveVideoProvider reports whether any rendering provider is configured.
	HasLiveVideoProvider() bool
}

// VoiceService covers speech recognition and synthesis.
type VoiceService interface {
	// SpeechToText transcribes recorded audio.
	SpeechToText(ctx context.Context, audio []byte, language string) (string, error)
	// TextToSpeech synthesizes spoken audio; fails when unconfigured.
	TextToSpeech(ctx context.Context, text, voiceID string) ([]byte, error)
}

// StreamService manages live avatar streams.
type StreamService interface {
	// StartStream opens a provider stream and returns the WebRTC offer.
	// initialText, when non-empty, is spoken as soon as the stream goes live.
	StartStream(ctx context.Context, sessionUuid, initialText string) (*respond.StartStreamRespond, error)
	// SubmitAnswer relays the browser's SDP answer.
	SubmitAnswer(ctx context.Context, sessionUuid string, sdpAnswer map[string]any) error
	// SendText has the live avatar speak the given text.
	SendText(ctx context.Context, sessionUuid, text string) error
	// StopStream tears the stream down.
	StopStream(ctx context.Context, sessionUuid string) error
	// StreamingToken mints a short-lived browser-side token.
	StreamingToken(ctx context.Context) (string, error)
}

// AuthService validates refresh-token identity.
type AuthService interface {
	// ValidateTokenID reports whether tokenID is the account's current
	// refresh token.
	ValidateTokenID(userID, tokenID string) (bool, error)
}
