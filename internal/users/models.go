package users

import (
	"time"
)

type User struct {
	UserID          int64     `db:"user_id" json:"user_id"`
	DisplayName     string    `db:"display_name" json:"display_name"`
	MessageCount    int       `db:"message_count" json:"message_count"`
	Language        string    `db:"language" json:"language"`
	LastMessageTime time.Time `db:"last_message_time" json:"last_message_time"`
}
