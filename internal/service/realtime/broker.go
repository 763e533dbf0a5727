// Package realtime fans session events out to connected WebSocket
// clients. Two broker implementations exist: an in-process channel
// broker for single-instance deployments and a kafka broker that lets
// several instances share one event stream.
package realtime

import "context"

// SessionEvent is the wire envelope published for a tutoring session.
type SessionEvent struct {
	SessionUuid string `json:"session_uuid"`
	Payload     []byte `json:"payload"`
}

// EventBroker moves session events from publishers to the WebSocket
// connections joined to the session's room.
type EventBroker interface {
	// Publish hands an event to the broker.
	Publish(ctx context.Context, event SessionEvent) error
	// Join adds a connection to its session's room.
	Join(conn *SessionConn)
	// Leave removes a connection from its session's room.
	Leave(conn *SessionConn)
	// Start runs the dispatch loop until Close.
	Start()
	// Close releases broker resources.
	Close()
}
