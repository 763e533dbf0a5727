// Package sender_enum defines who authored a message.
package sender_enum

const (
	USER = "user"
	AI   = "ai"
)
