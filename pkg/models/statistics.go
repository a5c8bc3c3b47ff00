package models

// SubjectStats aggregates progress for one subject
type SubjectStats struct {
	SubjectID        int64  `json:"subject_id" db:"subject_id"`
	SubjectName      string `json:"subject_name" db:"subject_name"`
	TotalItems       int    `json:"total_items" db:"total_items"`
	CompletedReviews int    `json:"completed_reviews" db:"completed_reviews"`
	MinutesStudied   int    `json:"minutes_studied" db:"minutes_studied"`
}
