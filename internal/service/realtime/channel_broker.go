package realtime

import (
	"context"

	"go.uber.org/zap"

	"lingua_tutor_server/pkg/constants"
)

// ChannelBroker is the single-instance broker. Rooms and membership are
// owned exclusively by the dispatch goroutine; the exported methods only
// push onto channels, so no lock is needed.
type ChannelBroker struct {
	events chan SessionEvent
	joins  chan *SessionConn
	leaves chan *SessionConn
	quit   chan struct{}

	// rooms maps session uuid -> member connections. Touched only by the
	// dispatch goroutine.
	rooms map[string]map[*SessionConn]struct{}
}

// NewChannelBroker creates the in-process broker.
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		events: make(chan SessionEvent, constants.CHANNEL_SIZE),
		joins:  make(chan *SessionConn, constants.CHANNEL_SIZE),
		leaves: make(chan *SessionConn, constants.CHANNEL_SIZE),
		quit:   make(chan struct{}),
		rooms:  make(map[string]map[*SessionConn]struct{}),
	}
}

// Publish hands an event to the dispatch loop. A full queue drops the
// event rather than blocking the request path.
func (b *ChannelBroker) Publish(ctx context.Context, event SessionEvent) error {
	select {
	case b.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		zap.L().Warn("event queue full, dropping session event",
			zap.String("session", event.SessionUuid))
		return nil
	}
}

// Join adds a connection to its session's room.
func (b *ChannelBroker) Join(conn *SessionConn) {
	b.joins <- conn
}

// Leave removes a connection from its session's room.
func (b *ChannelBroker) Leave(conn *SessionConn) {
	b.leaves <- conn
}

// Start runs the dispatch loop. Call in a goroutine.
func (b *ChannelBroker) Start() {
	zap.L().Info("channel broker started")
	for {
		select {
		case conn := <-b.joins:
			room, ok := b.rooms[conn.SessionUuid]
			if !ok {
				room = make(map[*SessionConn]struct{})
				b.rooms[conn.SessionUuid] = room
			}
			room[conn] = struct{}{}
			zap.L().Info("client joined session room",
				zap.String("session", conn.SessionUuid),
				zap.String("user", conn.UserUuid))

		case conn := <-b.leaves:
			if room, ok := b.rooms[conn.SessionUuid]; ok {
				if _, member := room[conn]; member {
					delete(room, conn)
					close(conn.Send)
					if len(room) == 0 {
						delete(b.rooms, conn.SessionUuid)
					}
				}
			}

		case event := <-b.events:
			room := b.rooms[event.SessionUuid]
			for conn := range room {
				select {
				case conn.Send <- event.Payload:
				default:
					// slow consumer, drop it from the room
					delete(room, conn)
					close(conn.Send)
				}
			}

		case <-b.quit:
			for _, room := range b.rooms {
				for conn := range room {
					close(conn.Send)
				}
			}
			b.rooms = make(map[string]map[*SessionConn]struct{})
			return
		}
	}
}

// Close stops the dispatch loop and drops all rooms.
func (b *ChannelBroker) Close() {
	close(b.quit)
}
