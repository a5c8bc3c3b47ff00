package database

import (
	"context"
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// StatisticsRepository handles aggregate queries over the study data
type StatisticsRepository struct{}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository() *StatisticsRepository {
	return &StatisticsRepository{}
}

// PerSubject returns progress totals for every subject
func (r *StatisticsRepository) PerSubject(ctx context.Context) ([]models.SubjectStats, error) {
	query := `
		SELECT s.id AS subject_id,
		       s.name AS subject_name,
		       COUNT(r.id) AS total_items,
		       COALESCE(SUM(r.review_count), 0) AS completed_reviews,
		       COALESCE((
		           SELECT SUM(ss.minutes) FROM study_sessions ss
		           WHERE ss.subject_id = s.id
		       ), 0) AS minutes_studied
		FROM subjects s
		LEFT JOIN revision_items r ON r.subject_id = s.id
		GROUP BY s.id, s.name
		ORDER BY s.name
	`
	var stats []models.SubjectStats
	if err := DB.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get statistics: %v", err)
	}
	return stats, nil
}
