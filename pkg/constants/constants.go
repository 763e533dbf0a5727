package constants

import "time"

const (
	CHANNEL_SIZE               = 100 // buffered channel size for ws fan-out
	REDIS_TIMEOUT              = 1   // cache entry lifetime (minutes)
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // refresh token lifetime, 168h = 7 days

	// HISTORY_WINDOW caps how many recent messages are sent as generation
	// context. Older turns stay persisted but are dropped from the prompt.
	HISTORY_WINDOW = 30

	// Video generation poll loop: fixed interval, bounded attempts
	// (60 * 5s = 5 minute ceiling).
	POLL_INTERVAL     = 5 * time.Second
	POLL_MAX_ATTEMPTS = 60

	// Talking-response duration estimate bounds (seconds).
	TALK_DURATION_MIN = 3
	TALK_DURATION_MAX = 30

	// DEFAULT_SUBJECT is used when a session is started without one.
	DEFAULT_SUBJECT = "General Tutoring"
)
