// Package session_status_enum defines the session lifecycle states.
package session_status_enum

const (
	ACTIVE = "active"
	PAUSED = "paused" // declared but never targeted by any transition
	ENDED  = "ended"
)
