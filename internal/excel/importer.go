package excel

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	SubjectColumn     string // Column with the subject name
	TitleColumn       string // Column with the item title
	NextReviewColumn  string // Column with the next review date
	ReviewCountColumn string // Column with the completed review count
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SubjectColumn:     "A",
		TitleColumn:       "B",
		NextReviewColumn:  "C",
		ReviewCountColumn: "D",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed  int
	SubjectsCreated int
	Created         int
	Updated         int
	Skipped         int
	Errors          []string
}

// dateLayouts lists the accepted next-review date formats
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006",
	"01-02-06", // excelize's default date cell rendering
}

// parseNextReview maps a cell value to a next-review time. An empty or
// unparseable value comes out as nil, which downstream means "due now";
// a bad date in a spreadsheet should over-notify, not drop the item.
func parseNextReview(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// ImportItems imports revision items from an Excel or CSV file
func ImportItems(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return importFromCSV(ctx, config)
	}
	return importFromExcel(ctx, config)
}

// importFromExcel imports revision items from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	subjects := newSubjectCache()

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := processRow(ctx, row, config, subjects, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

// importFromCSV imports revision items from a CSV file using the same
// column letters as the Excel path
func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	subjects := newSubjectCache()

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		if err := processRow(ctx, row, config, subjects, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// subjectCache avoids re-querying subjects for every row
type subjectCache struct {
	repo  *database.SubjectRepository
	byKey map[string]*models.Subject
}

func newSubjectCache() *subjectCache {
	return &subjectCache{
		repo:  database.NewSubjectRepository(),
		byKey: make(map[string]*models.Subject),
	}
}

func (c *subjectCache) getOrCreate(ctx context.Context, name string, result *ImportResult) (*models.Subject, error) {
	key := strings.ToLower(name)
	if subject, ok := c.byKey[key]; ok {
		return subject, nil
	}
	existing, err := c.repo.GetByName(ctx, name)
	if err == nil {
		c.byKey[key] = existing
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	subject, err := c.repo.GetOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	result.SubjectsCreated++
	c.byKey[key] = subject
	return subject, nil
}

// cellValue returns the trimmed value of a column letter within a row
func cellValue(row []string, column string) (string, error) {
	idx, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return "", fmt.Errorf("invalid column %q: %v", column, err)
	}
	if idx-1 >= len(row) {
		return "", nil
	}
	return strings.TrimSpace(row[idx-1]), nil
}

// processRow creates or updates one revision item from a spreadsheet row
func processRow(ctx context.Context, row []string, config ImportConfig, subjects *subjectCache, result *ImportResult) error {
	subjectName, err := cellValue(row, config.SubjectColumn)
	if err != nil {
		return err
	}
	title, err := cellValue(row, config.TitleColumn)
	if err != nil {
		return err
	}
	if subjectName == "" || title == "" {
		result.Skipped++
		return nil
	}

	nextRaw, err := cellValue(row, config.NextReviewColumn)
	if err != nil {
		return err
	}
	countRaw, err := cellValue(row, config.ReviewCountColumn)
	if err != nil {
		return err
	}

	nextReview := parseNextReview(nextRaw)
	reviewCount := 0
	if countRaw != "" {
		if n, err := strconv.Atoi(countRaw); err == nil && n >= 0 {
			reviewCount = n
		}
	}

	subject, err := subjects.getOrCreate(ctx, subjectName, result)
	if err != nil {
		return fmt.Errorf("failed to resolve subject %q: %v", subjectName, err)
	}

	repo := database.NewRevisionRepository()
	existing, err := repo.GetBySubjectAndTitle(ctx, subject.ID, title)
	if err == nil {
		existing.NextReviewAt = nextReview
		existing.ReviewCount = reviewCount
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	item := &models.RevisionItem{
		SubjectID:    subject.ID,
		Title:        title,
		NextReviewAt: nextReview,
		ReviewCount:  reviewCount,
	}
	if err := repo.Create(ctx, item); err != nil {
		return err
	}
	result.Created++
	return nil
}
