// Package report builds XLSX progress reports for administrators.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/progress"
)

const sheetName = "Progress"

// Exporter writes a learner's per-subject progress as a spreadsheet.
type Exporter struct {
	catalog    catalog.Store
	aggregator *progress.Aggregator
}

// NewExporter creates an exporter over the given catalog and aggregator.
func NewExporter(cat catalog.Store, agg *progress.Aggregator) *Exporter {
	return &Exporter{catalog: cat, aggregator: agg}
}

// WriteUserReport writes one row per subject for the user: subject name,
// skills mastered, total skills and percent.
func (e *Exporter) WriteUserReport(ctx context.Context, w io.Writer, userID int64) error {
	subjects, err := e.catalog.ListSubjects(ctx)
	if err != nil {
		return fmt.Errorf("list subjects: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]any{
		"Subject", "Level", "Skills Mastered", "Total Skills", "Percent",
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, sub := range subjects {
		snap, err := e.aggregator.SubjectProgress(ctx, userID, sub.ID)
		if err != nil {
			return fmt.Errorf("subject %d progress: %w", sub.ID, err)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &[]any{
			sub.Name, snap.Level, snap.SkillsMastered, snap.TotalSkills, snap.Percent,
		}); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
