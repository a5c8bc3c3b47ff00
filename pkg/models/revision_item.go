package models

import "time"

// RevisionItem represents a single revisable topic tracked by the planner
type RevisionItem struct {
	ID           int64      `json:"id" db:"id"`
	SubjectID    int64      `json:"subject_id" db:"subject_id"`
	SubjectName  string     `json:"subject_name" db:"subject_name"`
	Title        string     `json:"title" db:"title"`
	NextReviewAt *time.Time `json:"next_review_at" db:"next_review_at"` // nil means due now
	ReviewCount  int        `json:"review_count" db:"review_count"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
