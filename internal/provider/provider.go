// Package provider defines the shared types for the third-party AI/media
// gateway clients. Each vendor client lives in its own subpackage and owns
// its credential, request shape and response parsing; everything they hand
// back is normalized to the types here so the orchestrator never sees a
// vendor payload.
package provider

import "errors"

// Sentinel errors shared by all gateway clients.
var (
	// ErrNoCredential means the provider key is not configured. The
	// orchestrator treats this like any other tier failure.
	ErrNoCredential = errors.New("provider credential not configured")
	// ErrJobFailed means an asynchronous job reached a terminal failure state.
	ErrJobFailed = errors.New("provider job failed")
	// ErrPollTimeout means a job never reached a terminal state within the
	// bounded poll loop.
	ErrPollTimeout = errors.New("provider job poll timed out")
)

// ChatMessage is one entry of the generation context.
type ChatMessage struct {
	Sender  string // sender_enum.USER or sender_enum.AI
	Content string
}

// Persona carries the user/tutor identity embedded into the system prompt.
type Persona struct {
	UserName  string
	TutorName string
	Language  string // language being taught, e.g. "English"
	Subject   string // optional topic label
}

// VoiceOptions tunes the synthesized voice of a rendered avatar video.
// Zero values mean the provider default.
type VoiceOptions struct {
	VoiceID string
	Speed   float64
	Pitch   int
}

// TextResult is a normalized text-generation result.
type TextResult struct {
	Text     string
	Provider string // which tier produced it, e.g. "openai", "mock"
	Degraded bool   // true when a fallback tier answered
}

// MediaResult is a normalized avatar/voice generation result.
type MediaResult struct {
	VideoURL        string
	AudioURL        string
	DurationSeconds int
	IsLive          bool   // true for live streaming sessions
	Provider        string // e.g. "heygen", "did", "demo"
	Degraded        bool
}

// JobState is the normalized asynchronous job status vocabulary. Vendor
// states ("done"/"error" vs "completed"/"failed", nested differently) are
// mapped onto these three by each client.
type JobState string

const (
	JobPending JobState = "pending"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// JobStatus is a normalized poll response for an asynchronous video job.
type JobStatus struct {
	State    JobState
	URL      string // result URL, set when State == JobDone
	Progress int    // 0-100 when the vendor reports it, else 0
}
