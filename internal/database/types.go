package database

import (
	"database/sql"
)

// UserPrefs stores the notification preference for a chat
type UserPrefs struct {
	ChatID               int64        `db:"chat_id"`
	NotificationsEnabled bool         `db:"notifications_enabled"`
	CreatedAt            sql.NullTime `db:"created_at"`
	UpdatedAt            sql.NullTime `db:"updated_at"`
}
