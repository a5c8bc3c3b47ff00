package database

import (
	"context"
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// SessionRepository handles database operations for study sessions
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Create logs a study session and fills in its id
func (r *SessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	query := `
		INSERT INTO study_sessions (subject_id, started_at, minutes, notes)
		VALUES (?, ?, ?, ?)
	`
	id, err := insertReturningID(ctx, query,
		session.SubjectID,
		session.StartedAt,
		session.Minutes,
		session.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create study session: %v", err)
	}
	session.ID = id
	return nil
}

// ListRecent returns the most recent study sessions, newest first
func (r *SessionRepository) ListRecent(ctx context.Context, limit int) ([]models.StudySession, error) {
	query := DB.Rebind(`
		SELECT ss.id, ss.subject_id, s.name AS subject_name,
		       ss.started_at, ss.minutes, ss.notes, ss.created_at
		FROM study_sessions ss
		JOIN subjects s ON s.id = ss.subject_id
		ORDER BY ss.started_at DESC
		LIMIT ?
	`)
	var sessions []models.StudySession
	if err := DB.SelectContext(ctx, &sessions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list study sessions: %v", err)
	}
	return sessions, nil
}
