// Package model defines the database entities.
// This file defines the conversation message entity.
package model

import (
	"time"

	"gorm.io/gorm"
)

// Message is one utterance in a session, table message. Append-only.
// Ordering is by the snowflake Uuid, which is monotonic per process, so
// concurrent writers cannot interleave a transcript ambiguously.
type Message struct {
	gorm.Model

	// Uuid is a snowflake id; bigint avoids overflow and sorts by creation.
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:snowflake message id"`

	// SessionUuid references the owning session.
	SessionUuid string `gorm:"column:session_uuid;index;type:char(20);not null;comment:session id"`

	// Sender is one of sender_enum: "user" or "ai".
	Sender string `gorm:"column:sender;type:varchar(10);not null;comment:user or ai"`

	// Content is the message text.
	Content string `gorm:"column:content;type:TEXT;comment:message text"`

	// Attachments holds a JSON array of attachment URLs; empty for most turns.
	Attachments string `gorm:"column:attachments;type:TEXT;comment:attachment urls (json)"`

	// SendAt is the message timestamp.
	SendAt time.Time `gorm:"column:send_at;not null;comment:send time"`
}

// TableName pins the table name.
func (Message) TableName() string {
	return "message"
}
