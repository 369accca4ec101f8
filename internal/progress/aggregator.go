package progress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/nav"
)

// Aggregator computes derived completion views by merging ledger records with
// the catalog structure, and routes all progress writes through the ledger.
type Aggregator struct {
	catalog catalog.Store
	ledger  Ledger
	events  EventLogger
}

// NewAggregator creates an aggregator. A nil events logger discards events.
func NewAggregator(cat catalog.Store, ledger Ledger, events EventLogger) *Aggregator {
	if events == nil {
		events = NopEventLogger{}
	}
	return &Aggregator{catalog: cat, ledger: ledger, events: events}
}

// SubjectProgress returns the aggregate snapshot for (user, subject). A
// learner who has not started the subject gets a zero snapshot with the
// catalog-derived skill total, not an error.
func (a *Aggregator) SubjectProgress(ctx context.Context, userID, subjectID int64) (Progress, error) {
	if _, err := a.catalog.GetSubject(ctx, subjectID); err != nil {
		return Progress{}, err
	}

	p, found, err := a.ledger.Progress(ctx, userID, subjectID)
	if err != nil {
		return Progress{}, err
	}
	if found {
		return p, nil
	}

	total, err := a.countSubjectLessons(ctx, subjectID)
	if err != nil {
		return Progress{}, err
	}
	return Progress{UserID: userID, SubjectID: subjectID, TotalSkills: total}, nil
}

// UnitCompletion derives the unit completion view. Completed is true only
// when every lesson in the unit has a completed video record; a unit with no
// lessons is never completed.
func (a *Aggregator) UnitCompletion(ctx context.Context, userID, unitID int64) (UnitCompletion, error) {
	if _, err := a.catalog.GetUnit(ctx, unitID); err != nil {
		return UnitCompletion{}, err
	}

	lessons, err := a.catalog.ListLessons(ctx, unitID)
	if err != nil {
		return UnitCompletion{}, err
	}
	done, err := a.ledger.CompletedVideoLessons(ctx, userID, unitID)
	if err != nil {
		return UnitCompletion{}, err
	}

	completed := 0
	for _, l := range lessons {
		if done[l.ID] {
			completed++
		}
	}

	return UnitCompletion{
		UnitID:          unitID,
		Completed:       len(lessons) > 0 && completed == len(lessons),
		CompletedVideos: completed,
		TotalVideos:     len(lessons),
	}, nil
}

// RecordVideoCompletion marks a lesson's video as watched and returns the
// updated subject snapshot. Idempotent; a repeated call returns the same
// snapshot without double-counting.
func (a *Aggregator) RecordVideoCompletion(ctx context.Context, userID, unitID, lessonID int64) (Progress, error) {
	rec, err := a.buildRecord(ctx, userID, unitID, lessonID)
	if err != nil {
		return Progress{}, err
	}

	p, err := a.ledger.RecordVideoCompletion(ctx, rec)
	if err != nil {
		return Progress{}, err
	}

	a.logEvent(Event{
		UserID:    userID,
		SubjectID: rec.SubjectID,
		EventType: EventVideoCompleted,
		Data:      map[string]any{"unit_id": unitID, "lesson_id": lessonID},
	})
	return p, nil
}

// RecordQuizCompletion stores a quiz completion record. Quizzes do not count
// toward the skills counters.
func (a *Aggregator) RecordQuizCompletion(ctx context.Context, userID, unitID, itemID int64) error {
	rec, err := a.buildRecord(ctx, userID, unitID, itemID)
	if err != nil {
		return err
	}
	if err := a.ledger.RecordQuizCompletion(ctx, rec); err != nil {
		return err
	}
	a.logEvent(Event{
		UserID:    userID,
		SubjectID: rec.SubjectID,
		EventType: EventQuizCompleted,
		Data:      map[string]any{"unit_id": unitID, "item_id": itemID},
	})
	return nil
}

// RecordPracticeCompletion stores a practice completion record.
func (a *Aggregator) RecordPracticeCompletion(ctx context.Context, userID, unitID, itemID int64) error {
	rec, err := a.buildRecord(ctx, userID, unitID, itemID)
	if err != nil {
		return err
	}
	if err := a.ledger.RecordPracticeCompletion(ctx, rec); err != nil {
		return err
	}
	a.logEvent(Event{
		UserID:    userID,
		SubjectID: rec.SubjectID,
		EventType: EventPracticeCompleted,
		Data:      map[string]any{"unit_id": unitID, "item_id": itemID},
	})
	return nil
}

// ResetProgress deletes all progress for (user, subject). A subjectID of 0
// clears every subject.
func (a *Aggregator) ResetProgress(ctx context.Context, userID, subjectID int64) error {
	if err := a.ledger.Reset(ctx, userID, subjectID); err != nil {
		return err
	}
	a.logEvent(Event{
		UserID:    userID,
		SubjectID: subjectID,
		EventType: EventProgressReset,
	})
	return nil
}

// buildRecord resolves the catalog context for a completion write: validates
// the lesson/unit relation and derives the totals the ledger needs.
func (a *Aggregator) buildRecord(ctx context.Context, userID, unitID, lessonID int64) (CompletionRecord, error) {
	lesson, err := a.catalog.GetLesson(ctx, lessonID)
	if err != nil {
		return CompletionRecord{}, err
	}
	if lesson.UnitID != unitID {
		return CompletionRecord{}, &nav.InconsistentContextError{
			Relation: "lesson.unit_id",
			Got:      lesson.UnitID,
			Want:     unitID,
		}
	}

	unit, err := a.catalog.GetUnit(ctx, unitID)
	if err != nil {
		return CompletionRecord{}, err
	}

	unitLessons, err := a.catalog.ListLessons(ctx, unitID)
	if err != nil {
		return CompletionRecord{}, err
	}
	totalSkills, err := a.countSubjectLessons(ctx, unit.SubjectID)
	if err != nil {
		return CompletionRecord{}, err
	}

	return CompletionRecord{
		UserID:      userID,
		SubjectID:   unit.SubjectID,
		UnitID:      unitID,
		LessonID:    lessonID,
		TotalSkills: totalSkills,
		TotalVideos: len(unitLessons),
	}, nil
}

// countSubjectLessons counts every lesson across a subject's units; this is
// the skill total for the subject.
func (a *Aggregator) countSubjectLessons(ctx context.Context, subjectID int64) (int, error) {
	units, err := a.catalog.ListUnitsBySubject(ctx, subjectID)
	if err != nil {
		return 0, fmt.Errorf("list subject units: %w", err)
	}
	total := 0
	for _, u := range units {
		lessons, err := a.catalog.ListLessons(ctx, u.ID)
		if err != nil {
			return 0, fmt.Errorf("list unit lessons: %w", err)
		}
		total += len(lessons)
	}
	return total, nil
}

func (a *Aggregator) logEvent(event Event) {
	if err := a.events.LogEvent(event); err != nil {
		slog.Warn("progress event not logged", "type", event.EventType, "error", err)
	}
}
