package models

import "time"

// StudySession is one logged block of study time for a subject
type StudySession struct {
	ID          int64     `json:"id" db:"id"`
	SubjectID   int64     `json:"subject_id" db:"subject_id"`
	SubjectName string    `json:"subject_name" db:"subject_name"`
	StartedAt   time.Time `json:"started_at" db:"started_at"`
	Minutes     int       `json:"minutes" db:"minutes"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
