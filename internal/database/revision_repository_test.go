package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/example/studyplan/pkg/models"
)

func openTestDB(t *testing.T) {
	t.Helper()
	if err := Open("sqlite3", ":memory:"); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func mustCreateSubject(t *testing.T, name string) *models.Subject {
	t.Helper()
	subject, err := NewSubjectRepository().GetOrCreate(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to create subject: %v", err)
	}
	return subject
}

func TestRevisionItemLifecycle(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := NewRevisionRepository()
	subject := mustCreateSubject(t, "maths")

	next := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	item := &models.RevisionItem{
		SubjectID:    subject.ID,
		Title:        "quadratic equations",
		NextReviewAt: &next,
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("create did not assign an id")
	}

	got, err := repo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "quadratic equations" || got.SubjectName != "maths" {
		t.Fatalf("unexpected item: %+v", got)
	}
	if got.NextReviewAt == nil || !got.NextReviewAt.Equal(next) {
		t.Fatalf("unexpected next review time: %v", got.NextReviewAt)
	}
	if got.ReviewCount != 0 {
		t.Fatalf("new item should have no reviews, got %d", got.ReviewCount)
	}

	if err := repo.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, item.ID); err == nil {
		t.Fatal("expected an error getting a deleted item")
	}
}

func TestNilNextReviewRoundTrips(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := NewRevisionRepository()
	subject := mustCreateSubject(t, "chemistry")

	item := &models.RevisionItem{SubjectID: subject.ID, Title: "periodic table"}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.NextReviewAt != nil {
		t.Fatalf("expected nil next review, got %v", got.NextReviewAt)
	}
}

func TestGetDue(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := NewRevisionRepository()
	subject := mustCreateSubject(t, "history")
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(48 * time.Hour)
	items := []*models.RevisionItem{
		{SubjectID: subject.ID, Title: "overdue", NextReviewAt: &past},
		{SubjectID: subject.ID, Title: "never reviewed"},
		{SubjectID: subject.ID, Title: "upcoming", NextReviewAt: &future},
	}
	for _, item := range items {
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("create %q: %v", item.Title, err)
		}
	}

	due, err := repo.GetDue(ctx, now)
	if err != nil {
		t.Fatalf("get due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due items, got %d: %+v", len(due), due)
	}
	for _, item := range due {
		if item.Title == "upcoming" {
			t.Fatal("upcoming item reported as due")
		}
	}
}

func TestCompleteReviewBumpsCountOnce(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := NewRevisionRepository()
	subject := mustCreateSubject(t, "latin")

	item := &models.RevisionItem{SubjectID: subject.ID, Title: "declensions"}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	next := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.CompleteReview(ctx, item.ID, next); err != nil {
		t.Fatalf("complete review: %v", err)
	}

	got, err := repo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ReviewCount != 1 {
		t.Fatalf("expected review count 1, got %d", got.ReviewCount)
	}
	if got.NextReviewAt == nil || !got.NextReviewAt.Equal(next) {
		t.Fatalf("unexpected next review time: %v", got.NextReviewAt)
	}

	if err := repo.CompleteReview(ctx, 9999, next); err == nil {
		t.Fatal("expected an error completing a review for a missing item")
	}
}

func TestGetBySubjectAndTitleMissing(t *testing.T) {
	openTestDB(t)
	subject := mustCreateSubject(t, "physics")

	_, err := NewRevisionRepository().GetBySubjectAndTitle(context.Background(), subject.ID, "nope")
	if err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUserPrefs(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()

	prefs, err := GetPrefs(ctx, 42)
	if err != nil {
		t.Fatalf("get prefs: %v", err)
	}
	if prefs != nil {
		t.Fatalf("expected no prefs for a new chat, got %+v", prefs)
	}

	if err := SetNotificationsEnabled(ctx, 42, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	prefs, err = GetPrefs(ctx, 42)
	if err != nil {
		t.Fatalf("get prefs: %v", err)
	}
	if prefs == nil || !prefs.NotificationsEnabled {
		t.Fatalf("expected enabled prefs, got %+v", prefs)
	}

	if err := SetNotificationsEnabled(ctx, 42, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	prefs, err = GetPrefs(ctx, 42)
	if err != nil {
		t.Fatalf("get prefs: %v", err)
	}
	if prefs == nil || prefs.NotificationsEnabled {
		t.Fatalf("expected disabled prefs, got %+v", prefs)
	}
}
