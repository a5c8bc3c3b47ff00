package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/studyplan/pkg/models"
)

// RevisionRepository handles database operations for revision items
type RevisionRepository struct{}

// NewRevisionRepository creates a new repository instance
func NewRevisionRepository() *RevisionRepository {
	return &RevisionRepository{}
}

// revisionRow mirrors the revision_items table with nullable columns
type revisionRow struct {
	ID           int64        `db:"id"`
	SubjectID    int64        `db:"subject_id"`
	SubjectName  string       `db:"subject_name"`
	Title        string       `db:"title"`
	NextReviewAt sql.NullTime `db:"next_review_at"`
	ReviewCount  int          `db:"review_count"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// toModel converts a row to the model. An absent or zero next-review
// value comes out as nil, which the reminder engine treats as "due now".
func (r revisionRow) toModel() models.RevisionItem {
	item := models.RevisionItem{
		ID:          r.ID,
		SubjectID:   r.SubjectID,
		SubjectName: r.SubjectName,
		Title:       r.Title,
		ReviewCount: r.ReviewCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.NextReviewAt.Valid && !r.NextReviewAt.Time.IsZero() {
		t := r.NextReviewAt.Time
		item.NextReviewAt = &t
	}
	return item
}

func toModels(rows []revisionRow) []models.RevisionItem {
	items := make([]models.RevisionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items
}

const revisionColumns = `
	r.id, r.subject_id, s.name AS subject_name, r.title,
	r.next_review_at, r.review_count, r.created_at, r.updated_at
`

// Create inserts a new revision item and fills in its id
func (r *RevisionRepository) Create(ctx context.Context, item *models.RevisionItem) error {
	query := `
		INSERT INTO revision_items (subject_id, title, next_review_at, review_count)
		VALUES (?, ?, ?, ?)
	`
	id, err := insertReturningID(ctx, query,
		item.SubjectID,
		item.Title,
		item.NextReviewAt,
		item.ReviewCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create revision item: %v", err)
	}
	item.ID = id
	return nil
}

// Update modifies an existing revision item
func (r *RevisionRepository) Update(ctx context.Context, item *models.RevisionItem) error {
	query := DB.Rebind(`
		UPDATE revision_items SET
			title = ?,
			next_review_at = ?,
			review_count = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.ExecContext(ctx, query, item.Title, item.NextReviewAt, item.ReviewCount, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update revision item: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("revision item %d not found", item.ID)
	}
	return nil
}

// CompleteReview bumps the review count exactly once and records the
// next review time computed by the caller
func (r *RevisionRepository) CompleteReview(ctx context.Context, id int64, nextReviewAt time.Time) error {
	query := DB.Rebind(`
		UPDATE revision_items SET
			review_count = review_count + 1,
			next_review_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.ExecContext(ctx, query, nextReviewAt, id)
	if err != nil {
		return fmt.Errorf("failed to complete review: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("revision item %d not found", id)
	}
	return nil
}

// Delete removes a revision item
func (r *RevisionRepository) Delete(ctx context.Context, id int64) error {
	query := DB.Rebind(`DELETE FROM revision_items WHERE id = ?`)
	if _, err := DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete revision item: %v", err)
	}
	return nil
}

// GetByID returns a single revision item
func (r *RevisionRepository) GetByID(ctx context.Context, id int64) (*models.RevisionItem, error) {
	query := DB.Rebind(`
		SELECT ` + revisionColumns + `
		FROM revision_items r
		JOIN subjects s ON s.id = r.subject_id
		WHERE r.id = ?
	`)
	var row revisionRow
	if err := DB.GetContext(ctx, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get revision item: %v", err)
	}
	item := row.toModel()
	return &item, nil
}

// GetBySubjectAndTitle returns the item with the given title under a
// subject, or sql.ErrNoRows wrapped if there is none
func (r *RevisionRepository) GetBySubjectAndTitle(ctx context.Context, subjectID int64, title string) (*models.RevisionItem, error) {
	query := DB.Rebind(`
		SELECT ` + revisionColumns + `
		FROM revision_items r
		JOIN subjects s ON s.id = r.subject_id
		WHERE r.subject_id = ? AND r.title = ?
	`)
	var row revisionRow
	if err := DB.GetContext(ctx, &row, query, subjectID, title); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get revision item: %v", err)
	}
	item := row.toModel()
	return &item, nil
}

// All returns every revision item ordered by next review time
func (r *RevisionRepository) All(ctx context.Context) ([]models.RevisionItem, error) {
	query := `
		SELECT ` + revisionColumns + `
		FROM revision_items r
		JOIN subjects s ON s.id = r.subject_id
		ORDER BY r.next_review_at IS NULL DESC, r.next_review_at ASC
	`
	var rows []revisionRow
	if err := DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list revision items: %v", err)
	}
	return toModels(rows), nil
}

// GetDue returns items whose next review time is absent or has passed
func (r *RevisionRepository) GetDue(ctx context.Context, now time.Time) ([]models.RevisionItem, error) {
	query := DB.Rebind(`
		SELECT ` + revisionColumns + `
		FROM revision_items r
		JOIN subjects s ON s.id = r.subject_id
		WHERE r.next_review_at IS NULL OR r.next_review_at <= ?
		ORDER BY r.next_review_at ASC
	`)
	var rows []revisionRow
	if err := DB.SelectContext(ctx, &rows, query, now); err != nil {
		return nil, fmt.Errorf("failed to get due revision items: %v", err)
	}
	return toModels(rows), nil
}
