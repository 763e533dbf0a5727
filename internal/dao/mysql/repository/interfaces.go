// Package repository isolates data access behind narrow interfaces so the
// service layer can be tested against stubs. One implementation file per
// entity; shared error wrapping lives in helper.go.
package repository

import (
	"lingua_tutor_server/internal/model"
)

// UserRepository covers account persistence.
type UserRepository interface {
	// Create inserts a new user.
	Create(user *model.UserInfo) error
	// FindByUuid looks a user up by public id.
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByEmail looks a user up by login email.
	FindByEmail(email string) (*model.UserInfo, error)
	// UpdateFields patches selected columns of a user row.
	UpdateFields(uuid string, updates map[string]interface{}) error
}

// SessionRepository covers tutoring session persistence.
type SessionRepository interface {
	// Create inserts a new session.
	Create(session *model.Session) error
	// FindByUuid looks a session up by public id.
	FindByUuid(uuid string) (*model.Session, error)
	// FindActiveByUser returns the user's active session, CodeNotFound if none.
	FindActiveByUser(userUuid string) (*model.Session, error)
	// FindActiveByUserForUpdate is FindActiveByUser with a row lock; only
	// meaningful inside a transaction, used by the one-active-session guard.
	FindActiveByUserForUpdate(userUuid string) (*model.Session, error)
	// UpdateFields patches selected columns of a session row.
	UpdateFields(uuid string, updates map[string]interface{}) error
	// FindByUserPaged returns the user's sessions newest-first.
	FindByUserPaged(userUuid string, offset, limit int) ([]model.Session, error)
	// CountByUser returns how many sessions the user has.
	CountByUser(userUuid string) (int64, error)
}

// MessageRepository covers conversation message persistence.
type MessageRepository interface {
	// Create inserts a single message.
	Create(message *model.Message) error
	// CreateBatch inserts messages in one statement, preserving slice order.
	CreateBatch(messages []*model.Message) error
	// FindBySession returns all messages of a session ordered by snowflake id.
	FindBySession(sessionUuid string) ([]model.Message, error)
	// FindRecentBySession returns the newest limit messages of a session in
	// chronological order; used to build the capped generation context.
	FindRecentBySession(sessionUuid string, limit int) ([]model.Message, error)
	// CountBySession returns how many messages a session holds.
	CountBySession(sessionUuid string) (int64, error)
}
