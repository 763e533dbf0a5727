package repository

import (
	"gorm.io/gorm"
)

// Repositories aggregates all repository instances. The service layer
// receives this through constructor injection.
type Repositories struct {
	db      *gorm.DB
	User    UserRepository
	Session SessionRepository
	Message MessageRepository
}

// NewRepositories builds all repositories on one gorm instance.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:      db,
		User:    NewUserRepository(db),
		Session: NewSessionRepository(db),
		Message: NewMessageRepository(db),
	}
}

// Transaction runs fn inside a database transaction. fn receives a
// Repositories bound to the transaction; any error rolls everything back.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		// stub-backed aggregate, nothing to wrap
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// NewStubRepositories assembles an aggregate from hand-built repositories,
// used by service tests.
func NewStubRepositories(user UserRepository, session SessionRepository, message MessageRepository) *Repositories {
	return &Repositories{
		User:    user,
		Session: session,
		Message: message,
	}
}
