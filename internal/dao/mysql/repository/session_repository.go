// Package repository provides the data access implementations.
// This file implements SessionRepository.
package repository

import (
	"lingua_tutor_server/internal/model"
	"lingua_tutor_server/pkg/enum/session/session_status_enum"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a SessionRepository instance.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session.
func (r *sessionRepository) Create(session *model.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return wrapDBError(err, "create session")
	}
	return nil
}

// FindByUuid looks a session up by public id.
func (r *sessionRepository) FindByUuid(uuid string) (*model.Session, error) {
	var session model.Session
	if err := r.db.Where("uuid = ?", uuid).First(&session).Error; err != nil {
		return nil, wrapDBErrorf(err, "find session uuid=%s", uuid)
	}
	return &session, nil
}

// FindActiveByUser returns the user's active session, CodeNotFound if none.
func (r *sessionRepository) FindActiveByUser(userUuid string) (*model.Session, error) {
	var session model.Session
	if err := r.db.Where("user_uuid = ? AND status = ?", userUuid, session_status_enum.ACTIVE).
		First(&session).Error; err != nil {
		return nil, wrapDBErrorf(err, "find active session user=%s", userUuid)
	}
	return &session, nil
}

// FindActiveByUserForUpdate adds SELECT ... FOR UPDATE so two concurrent
// session starts serialize inside a transaction instead of both passing the
// one-active check.
func (r *sessionRepository) FindActiveByUserForUpdate(userUuid string) (*model.Session, error) {
	var session model.Session
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_uuid = ? AND status = ?", userUuid, session_status_enum.ACTIVE).
		First(&session).Error; err != nil {
		return nil, wrapDBErrorf(err, "find active session (locked) user=%s", userUuid)
	}
	return &session, nil
}

// UpdateFields patches selected columns of a session row.
func (r *sessionRepository) UpdateFields(uuid string, updates map[string]interface{}) error {
	if err := r.db.Model(&model.Session{}).Where("uuid = ?", uuid).Updates(updates).Error; err != nil {
		return wrapDBErrorf(err, "update session uuid=%s", uuid)
	}
	return nil
}

// FindByUserPaged returns the user's sessions newest-first.
func (r *sessionRepository) FindByUserPaged(userUuid string, offset, limit int) ([]model.Session, error) {
	var sessions []model.Session
	if err := r.db.Where("user_uuid = ?", userUuid).
		Order("started_at DESC").
		Offset(offset).Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, wrapDBErrorf(err, "page sessions user=%s", userUuid)
	}
	return sessions, nil
}

// CountByUser returns how many sessions the user has.
func (r *sessionRepository) CountByUser(userUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Session{}).Where("user_uuid = ?", userUuid).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count sessions user=%s", userUuid)
	}
	return count, nil
}
