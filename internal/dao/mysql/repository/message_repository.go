// Package repository provides the data access implementations.
// This file implements MessageRepository.
package repository

import (
	"lingua_tutor_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a MessageRepository instance.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a single message.
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "create message")
	}
	return nil
}

// CreateBatch inserts messages in one statement, preserving slice order.
// A turn writes its user and ai messages through this so both land or
// neither does.
func (r *messageRepository) CreateBatch(messages []*model.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := r.db.Create(messages).Error; err != nil {
		return wrapDBError(err, "create messages")
	}
	return nil
}

// FindBySession returns all messages of a session ordered by snowflake id.
func (r *messageRepository) FindBySession(sessionUuid string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("session_uuid = ?", sessionUuid).
		Order("uuid ASC").
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "find messages session=%s", sessionUuid)
	}
	return messages, nil
}

// FindRecentBySession returns the newest limit messages in chronological
// order. Fetches newest-first then reverses, so the window always ends at
// the latest message.
func (r *messageRepository) FindRecentBySession(sessionUuid string, limit int) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("session_uuid = ?", sessionUuid).
		Order("uuid DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "recent messages session=%s", sessionUuid)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CountBySession returns how many messages a session holds.
func (r *messageRepository) CountBySession(sessionUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).Where("session_uuid = ?", sessionUuid).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count messages session=%s", sessionUuid)
	}
	return count, nil
}
