package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// SubjectRepository handles database operations for subjects
type SubjectRepository struct{}

// NewSubjectRepository creates a new repository instance
func NewSubjectRepository() *SubjectRepository {
	return &SubjectRepository{}
}

// GetByName returns a subject by its name
func (r *SubjectRepository) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	query := DB.Rebind(`SELECT id, name, created_at FROM subjects WHERE name = ?`)
	var subject models.Subject
	if err := DB.GetContext(ctx, &subject, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get subject: %v", err)
	}
	return &subject, nil
}

// GetOrCreate returns the subject with the given name, creating it if
// it doesn't exist yet
func (r *SubjectRepository) GetOrCreate(ctx context.Context, name string) (*models.Subject, error) {
	subject, err := r.GetByName(ctx, name)
	if err == nil {
		return subject, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	id, err := insertReturningID(ctx, `INSERT INTO subjects (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create subject: %v", err)
	}
	return &models.Subject{ID: id, Name: name}, nil
}

// All returns every subject ordered by name
func (r *SubjectRepository) All(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := DB.SelectContext(ctx, &subjects, `SELECT id, name, created_at FROM subjects ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list subjects: %v", err)
	}
	return subjects, nil
}

// Delete removes a subject along with its items and sessions
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	query := DB.Rebind(`DELETE FROM subjects WHERE id = ?`)
	if _, err := DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete subject: %v", err)
	}
	return nil
}
