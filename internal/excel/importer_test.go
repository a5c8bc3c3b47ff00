package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/studyplan/internal/database"
)

func openTestDB(t *testing.T) {
	t.Helper()
	if err := database.Open("sqlite3", ":memory:"); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "items.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestImportItemsFromExcel(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()

	path := writeWorkbook(t, [][]interface{}{
		{"Subject", "Title", "Next review", "Reviews"},
		{"maths", "quadratic equations", "2026-03-10", "2"},
		{"maths", "integration by parts", "", ""},
		{"history", "french revolution", "not-a-date", "1"},
		{"", "orphaned title", "", ""},
	})

	config := DefaultImportConfig()
	config.FilePath = path

	result, err := ImportItems(ctx, config)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if result.TotalProcessed != 4 {
		t.Errorf("processed = %d, want 4", result.TotalProcessed)
	}
	if result.Created != 3 {
		t.Errorf("created = %d, want 3", result.Created)
	}
	if result.SubjectsCreated != 2 {
		t.Errorf("subjects created = %d, want 2", result.SubjectsCreated)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected row errors: %v", result.Errors)
	}

	items, err := database.NewRevisionRepository().All(ctx)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items in the store, got %d", len(items))
	}

	for _, item := range items {
		switch item.Title {
		case "quadratic equations":
			want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
			if item.NextReviewAt == nil || !item.NextReviewAt.Equal(want) {
				t.Errorf("quadratic equations next review = %v, want %v", item.NextReviewAt, want)
			}
			if item.ReviewCount != 2 {
				t.Errorf("quadratic equations review count = %d, want 2", item.ReviewCount)
			}
		case "french revolution":
			// A malformed date imports as due-now rather than dropping
			// the reminder
			if item.NextReviewAt != nil {
				t.Errorf("malformed date should import as nil, got %v", item.NextReviewAt)
			}
		}
	}
}

func TestImportItemsUpdatesExisting(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()

	path := writeWorkbook(t, [][]interface{}{
		{"Subject", "Title", "Next review", "Reviews"},
		{"maths", "quadratic equations", "2026-03-10", "2"},
	})
	config := DefaultImportConfig()
	config.FilePath = path

	if _, err := ImportItems(ctx, config); err != nil {
		t.Fatalf("first import: %v", err)
	}
	result, err := ImportItems(ctx, config)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("expected a pure update, got created=%d updated=%d", result.Created, result.Updated)
	}
	if result.SubjectsCreated != 0 {
		t.Fatalf("expected no new subjects, got %d", result.SubjectsCreated)
	}
}

func TestImportItemsFromCSV(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "items.csv")
	csv := "Subject,Title,Next review,Reviews\nbiology,cell division,2026-03-05,0\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	config := DefaultImportConfig()
	config.FilePath = path

	result, err := ImportItems(ctx, config)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created = %d, want 1", result.Created)
	}
}
