// Package tutor runs the provider fallback cascade. Replies try the
// configured language model first and fall back to canned responses;
// avatar video tries HeyGen, then D-ID, then the bundled demo clips.
// The last tier of each cascade never fails, so callers always get a
// usable result.
package tutor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/internal/provider/did"
	"lingua_tutor_server/internal/provider/heygen"
	"lingua_tutor_server/internal/provider/openai"
	"lingua_tutor_server/pkg/constants"
)

// tutorService orchestrates the provider tiers.
type tutorService struct {
	openai *openai.Client
	heygen *heygen.Client
	did    *did.Client

	// pollInterval is overridable in tests.
	pollInterval time.Duration
	pollMax      int
}

// NewTutorService wires the provider clients into the cascade.
func NewTutorService(openaiClient *openai.Client, heygenClient *heygen.Client, didClient *did.Client) *tutorService {
	return &tutorService{
		openai:       openaiClient,
		heygen:       heygenClient,
		did:          didClient,
		pollInterval: constants.POLL_INTERVAL,
		pollMax:      constants.POLL_MAX_ATTEMPTS,
	}
}

// GenerateReply produces the tutor's next turn. A provider failure drops to
// the canned tier instead of surfacing to the caller.
func (t *tutorService) GenerateReply(ctx context.Context, history []provider.ChatMessage, p provider.Persona) provider.TextResult {
	if t.openai.Configured() {
		text, err := t.openai.GenerateText(ctx, history, p)
		if err == nil {
			return provider.TextResult{Text: text, Provider: "openai", Degraded: false}
		}
		zap.L().Warn("openai reply failed, falling back to canned responses", zap.Error(err))
	}

	if len(history) == 0 {
		return provider.TextResult{Text: openai.OpeningLine(p), Provider: "mock", Degraded: true}
	}
	last := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Sender == "user" {
			last = history[i].Content
			break
		}
	}
	return provider.TextResult{Text: openai.CannedReply(last, p), Provider: "mock", Degraded: true}
}

// GenerateAvatarVideo renders a talking-avatar clip for the given text.
// Tiers run in order until one succeeds; the demo tier cannot fail. Voice
// options only reach tiers whose API exposes them.
func (t *tutorService) GenerateAvatarVideo(ctx context.Context, text, tutorName string, voice provider.VoiceOptions) provider.MediaResult {
	if t.heygen.Configured() {
		res, err := t.heygenVideo(ctx, text, voice)
		if err == nil {
			return res
		}
		zap.L().Warn("heygen video failed, trying d-id", zap.Error(err))
	}

	if t.did.Configured() {
		res, err := t.didVideo(ctx, text)
		if err == nil {
			return res
		}
		zap.L().Warn("d-id video failed, serving demo clip", zap.Error(err))
	}

	return t.demoVideo(text, tutorName)
}

func (t *tutorService) heygenVideo(ctx context.Context, text string, voice provider.VoiceOptions) (provider.MediaResult, error) {
	videoID, err := t.heygen.GenerateVideo(ctx, text, voice)
	if err != nil {
		return provider.MediaResult{}, err
	}
	url, err := t.poll(ctx, func(ctx context.Context) (provider.JobStatus, error) {
		return t.heygen.VideoStatus(ctx, videoID)
	})
	if err != nil {
		return provider.MediaResult{}, err
	}
	return provider.MediaResult{
		VideoURL:        url,
		DurationSeconds: TalkDuration(text),
		Provider:        "heygen",
	}, nil
}

func (t *tutorService) didVideo(ctx context.Context, text string) (provider.MediaResult, error) {
	talkID, err := t.did.CreateTalk(ctx, text)
	if err != nil {
		return provider.MediaResult{}, err
	}
	url, err := t.poll(ctx, func(ctx context.Context) (provider.JobStatus, error) {
		return t.did.GetTalk(ctx, talkID)
	})
	if err != nil {
		return provider.MediaResult{}, err
	}
	return provider.MediaResult{
		VideoURL:        url,
		DurationSeconds: TalkDuration(text),
		Provider:        "did",
	}, nil
}

// poll re-checks an async provider job at a fixed interval until it reaches
// a terminal state or the attempt ceiling is hit.
func (t *tutorService) poll(ctx context.Context, fetch func(context.Context) (provider.JobStatus, error)) (string, error) {
	for attempt := 0; attempt < t.pollMax; attempt++ {
		status, err := fetch(ctx)
		if err != nil {
			return "", err
		}
		switch status.State {
		case provider.JobDone:
			return status.URL, nil
		case provider.JobFailed:
			return "", provider.ErrJobFailed
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(t.pollInterval):
		}
	}
	return "", provider.ErrPollTimeout
}

// HasLiveVideoProvider reports whether any rendering provider is configured.
// When false, avatar requests go straight to the demo tier.
func (t *tutorService) HasLiveVideoProvider() bool {
	return t.heygen.Configured() || t.did.Configured()
}
