package bot

import (
	"context"
	"log"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/reminder"
)

// StoredPermissions maps the chat's persisted notification preference
// onto the engine's permission states. No chat or no stored row means
// the user has never been asked; a disabled row means denied. The state
// is re-read on every call, never cached.
type StoredPermissions struct {
	notifier *TelegramNotifier
}

// NewStoredPermissions creates a permission source that follows the
// notifier's chat binding
func NewStoredPermissions(notifier *TelegramNotifier) *StoredPermissions {
	return &StoredPermissions{notifier: notifier}
}

// Current implements reminder.PermissionSource
func (p *StoredPermissions) Current() reminder.PermissionState {
	chatID := p.notifier.boundChat()
	if chatID == 0 {
		return reminder.PermissionUnset
	}
	prefs, err := database.GetPrefs(context.Background(), chatID)
	if err != nil {
		log.Printf("Error reading notification prefs: %v", err)
		return reminder.PermissionDenied
	}
	if prefs == nil {
		return reminder.PermissionUnset
	}
	if prefs.NotificationsEnabled {
		return reminder.PermissionGranted
	}
	return reminder.PermissionDenied
}

// Request implements reminder.PermissionSource by persisting an opt-in
func (p *StoredPermissions) Request() reminder.RequestOutcome {
	chatID := p.notifier.boundChat()
	if chatID == 0 {
		return reminder.OutcomeDismissed
	}
	if err := database.SetNotificationsEnabled(context.Background(), chatID, true); err != nil {
		log.Printf("Error storing notification prefs: %v", err)
		return reminder.OutcomeDismissed
	}
	return reminder.OutcomeGranted
}
