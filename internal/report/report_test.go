package report_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/progress"
	"github.com/afrolearn/afrolearn/internal/report"
)

func TestExporter_WriteUserReport(t *testing.T) {
	ctx := t.Context()
	store := catalog.NewMemoryStore()

	grade, _ := store.InsertGrade(ctx, "Primary 1")
	math, _ := store.InsertSubject(ctx, "Mathematics", "math")
	store.InsertSubject(ctx, "Science", "flask")
	unit, _ := store.InsertUnit(ctx, catalog.Unit{Name: "Addition", SubjectID: math.ID, GradeID: grade.ID})
	lesson, err := store.InsertLesson(ctx, catalog.Lesson{Name: "Adding to 10", UnitID: unit.ID})
	if err != nil {
		t.Fatalf("InsertLesson() error = %v", err)
	}

	agg := progress.NewAggregator(store, progress.NewMemoryLedger(), nil)
	if _, err := agg.RecordVideoCompletion(ctx, 5, unit.ID, lesson.ID); err != nil {
		t.Fatalf("RecordVideoCompletion() error = %v", err)
	}

	var buf bytes.Buffer
	if err := report.NewExporter(store, agg).WriteUserReport(ctx, &buf, 5); err != nil {
		t.Fatalf("WriteUserReport() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Progress")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	// Header plus one row per subject.
	if len(rows) != 3 {
		t.Fatalf("rows count = %d, want 3", len(rows))
	}
	if rows[0][0] != "Subject" {
		t.Errorf("header[0] = %q, want Subject", rows[0][0])
	}
	if rows[1][0] != "Mathematics" {
		t.Errorf("rows[1][0] = %q, want Mathematics", rows[1][0])
	}
	if rows[1][4] != "100" {
		t.Errorf("Mathematics percent = %q, want 100", rows[1][4])
	}
	if rows[2][0] != "Science" {
		t.Errorf("rows[2][0] = %q, want Science", rows[2][0])
	}
}
