package database

import (
	"context"
	"database/sql"
	"fmt"
)

// GetPrefs retrieves the preferences for a chat. A missing row comes
// back as (nil, nil): the user has never been asked.
func GetPrefs(ctx context.Context, chatID int64) (*UserPrefs, error) {
	query := DB.Rebind(`
		SELECT chat_id, notifications_enabled, created_at, updated_at
		FROM user_prefs
		WHERE chat_id = ?
	`)

	prefs := &UserPrefs{}
	err := DB.GetContext(ctx, prefs, query, chatID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user prefs: %v", err)
	}
	return prefs, nil
}

// SetNotificationsEnabled records the notification preference for a
// chat, creating the row on first use
func SetNotificationsEnabled(ctx context.Context, chatID int64, enabled bool) error {
	query := DB.Rebind(`
		INSERT INTO user_prefs (chat_id, notifications_enabled)
		VALUES (?, ?)
		ON CONFLICT (chat_id) DO UPDATE SET
			notifications_enabled = excluded.notifications_enabled,
			updated_at = CURRENT_TIMESTAMP
	`)
	if _, err := DB.ExecContext(ctx, query, chatID, enabled); err != nil {
		return fmt.Errorf("failed to update user prefs: %v", err)
	}
	return nil
}
