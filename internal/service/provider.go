// Package service provides the business-logic layer.
// This file wires dependency injection and aggregation.
package service

import (
	"lingua_tutor_server/internal/config"
	"lingua_tutor_server/internal/dao/mysql/repository"
	myredis "lingua_tutor_server/internal/dao/redis"
	"lingua_tutor_server/internal/provider/did"
	"lingua_tutor_server/internal/provider/elevenlabs"
	"lingua_tutor_server/internal/provider/heygen"
	"lingua_tutor_server/internal/provider/openai"
	"lingua_tutor_server/internal/service/auth"
	"lingua_tutor_server/internal/service/session"
	"lingua_tutor_server/internal/service/stream"
	"lingua_tutor_server/internal/service/tutor"
	"lingua_tutor_server/internal/service/user"
	"lingua_tutor_server/internal/service/voice"
)

// Services aggregates all service instances. Handlers reach them through
// service.Svc.
type Services struct {
	User    UserService
	Session SessionService
	Tutor   TutorService
	Voice   VoiceService
	Stream  StreamService
	Auth    AuthService
}

// NewServices creates all services with their dependencies. events carries
// session fan-out to connected clients and may be nil.
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, events session.EventPublisher) *Services {
	cfg := config.GetConfig()

	openaiClient := openai.NewClient(cfg.ProviderConfig.OpenAI)
	elevenlabsClient := elevenlabs.NewClient(cfg.ProviderConfig.ElevenLabs)
	didClient := did.NewClient(cfg.ProviderConfig.DID)
	heygenClient := heygen.NewClient(cfg.ProviderConfig.HeyGen)

	tutorSvc := tutor.NewTutorService(openaiClient, heygenClient, didClient)

	return &Services{
		User:    user.NewUserService(repos, cache),
		Session: session.NewSessionService(repos, cache, tutorSvc, events),
		Tutor:   tutorSvc,
		Voice:   voice.NewVoiceService(openaiClient, elevenlabsClient),
		Stream:  stream.NewStreamService(heygenClient, events),
		Auth:    auth.NewAuthService(cache),
	}
}

// Svc is the global Services instance used by the handler layer.
var Svc *Services

// InitServices sets the global instance. Call from main after the
// repositories and cache are up.
func InitServices(repos *repository.Repositories, cache myredis.AsyncCacheService, events session.EventPublisher) {
	Svc = NewServices(repos, cache, events)
}
