// Package model defines the database entities.
// This file defines the tutoring session entity.
package model

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Session is one tutoring conversation, table session.
// User name, language and tutor name are denormalized at start time so the
// transcript keeps the persona it was held with even if the profile changes.
type Session struct {
	gorm.Model

	// Uuid is the public session identifier.
	// Format: T + date-prefixed random string
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:public session id"`

	// UserUuid references the owning user.
	UserUuid string `gorm:"column:user_uuid;index;type:char(20);not null;comment:owner user id"`

	// UserName snapshot taken at session start.
	UserName string `gorm:"column:user_name;type:varchar(50);not null;comment:user name snapshot"`

	// Language snapshot taken at session start.
	Language string `gorm:"column:language;type:varchar(30);not null;comment:target language snapshot"`

	// TutorName snapshot taken at session start.
	TutorName string `gorm:"column:tutor_name;type:varchar(50);not null;comment:tutor name snapshot"`

	// Subject is the optional topic label; defaults to "General Tutoring".
	Subject string `gorm:"column:subject;type:varchar(100);not null;comment:topic label"`

	// Status is one of session_status_enum: active, paused, ended.
	// paused is declared but no flow transitions into it (reserved).
	Status string `gorm:"column:status;index;type:varchar(10);not null;comment:active/paused/ended"`

	// StartedAt is when the session was opened.
	StartedAt time.Time `gorm:"column:started_at;not null;comment:session start time"`

	// EndedAt is set by the end transition; NULL while active.
	EndedAt sql.NullTime `gorm:"column:ended_at;comment:session end time"`

	// DurationMinutes = EndedAt - StartedAt, computed at end time.
	DurationMinutes int `gorm:"column:duration_minutes;comment:computed duration"`
}

// TableName pins the table name.
func (Session) TableName() string {
	return "session"
}
