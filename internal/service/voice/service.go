// Package voice bridges speech endpoints to the transcription and
// synthesis providers. Unlike the avatar cascade there is no offline
// tier here; provider errors surface to the caller.
package voice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/internal/provider/elevenlabs"
	"lingua_tutor_server/internal/provider/openai"
	"lingua_tutor_server/pkg/errorx"
)

type voiceService struct {
	openai     *openai.Client
	elevenlabs *elevenlabs.Client
}

// NewVoiceService wires the speech providers.
func NewVoiceService(openaiClient *openai.Client, elevenlabsClient *elevenlabs.Client) *voiceService {
	return &voiceService{
		openai:     openaiClient,
		elevenlabs: elevenlabsClient,
	}
}

// SpeechToText transcribes recorded audio in the given language.
func (v *voiceService) SpeechToText(ctx context.Context, audio []byte, language string) (string, error) {
	text, err := v.openai.Transcribe(ctx, audio, language)
	if err != nil {
		if errors.Is(err, provider.ErrNoCredential) {
			return "", errorx.New(errorx.CodeProviderError, "speech recognition is not configured")
		}
		zap.L().Error("transcription failed", zap.Error(err))
		return "", errorx.Wrap(err, errorx.CodeProviderError, "speech recognition failed")
	}
	return text, nil
}

// TextToSpeech synthesizes spoken audio. A missing credential is an error,
// not a silent fallback.
func (v *voiceService) TextToSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	audio, err := v.elevenlabs.Synthesize(ctx, text, voiceID)
	if err != nil {
		if errors.Is(err, provider.ErrNoCredential) {
			return nil, errorx.New(errorx.CodeProviderError, "voice synthesis is not configured")
		}
		zap.L().Error("voice synthesis failed", zap.Error(err))
		return nil, errorx.Wrap(err, errorx.CodeProviderError, "voice synthesis failed")
	}
	return audio, nil
}
