// Package model defines the database entities.
// This file defines the user entity with credentials and tutor preferences.
package model

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo is the account record, table user_info.
type UserInfo struct {
	gorm.Model // ID, CreatedAt, UpdatedAt, DeletedAt

	// Uuid is the public user identifier.
	// Format: U + date-prefixed random string, e.g. "U260830aB3xY9Qk2Lm1"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:public user id"`

	// Name is the display name.
	Name string `gorm:"column:name;type:varchar(50);not null;comment:display name"`

	// Email is the login identity, unique across accounts.
	Email string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:login email"`

	// Password stores the bcrypt hash, never the plaintext.
	Password string `gorm:"column:password;type:varchar(100);not null;comment:bcrypt hash"`

	// Language is the language the user is learning, e.g. "English".
	Language string `gorm:"column:language;type:varchar(30);default:English;not null;comment:target language"`

	// TutorName is the display name the user chose for their AI tutor.
	TutorName string `gorm:"column:tutor_name;type:varchar(50);default:Sam;not null;comment:tutor display name"`

	// CustomTutor marks a user-defined tutor persona rather than a preset.
	CustomTutor bool `gorm:"column:custom_tutor;not null;default:false;comment:user-defined tutor persona"`

	// RawPassword receives the plaintext from the API layer and is hashed
	// in BeforeSave. Never persisted, never serialized.
	RawPassword string `gorm:"-" json:"-"`
}

// TableName pins the table name.
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave hashes RawPassword into Password so callers only ever set the
// plaintext field.
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword verifies a login attempt against the stored hash.
func (u *UserInfo) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}
