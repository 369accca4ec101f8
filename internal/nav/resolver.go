// Package nav reconstructs the Grade/Subject/Unit/Lesson ancestor chain
// needed to render breadcrumb and detail views.
package nav

import (
	"context"
	"fmt"

	"github.com/afrolearn/afrolearn/internal/catalog"
)

// Context is a fully resolved lesson location: the lesson together with its
// complete ancestor chain.
type Context struct {
	Lesson  catalog.Lesson  `json:"lesson"`
	Unit    catalog.Unit    `json:"unit"`
	Subject catalog.Subject `json:"subject"`
	Grade   catalog.Grade   `json:"grade"`
}

// InconsistentContextError reports a supplied ancestor chain whose relations
// do not hold. Relation names the broken link, e.g. "lesson.unit_id".
type InconsistentContextError struct {
	Relation string
	Got      int64
	Want     int64
}

func (e *InconsistentContextError) Error() string {
	return fmt.Sprintf("inconsistent context: %s = %d, want %d", e.Relation, e.Got, e.Want)
}

// Resolver resolves partial lesson references against the catalog. It holds
// no state of its own; every call is an independent lookup pipeline.
type Resolver struct {
	store catalog.Store
}

// NewResolver creates a resolver backed by the given catalog store.
func NewResolver(store catalog.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks up the full ancestor chain for a lesson id. The pipeline runs
// lesson, unit, subject, grade in order and stops at the first missing link;
// the returned error is a *catalog.NotFoundError naming the stage that broke.
func (r *Resolver) Resolve(ctx context.Context, lessonID int64) (Context, error) {
	lesson, err := r.store.GetLesson(ctx, lessonID)
	if err != nil {
		return Context{}, fmt.Errorf("resolve lesson: %w", err)
	}

	unit, err := r.store.GetUnit(ctx, lesson.UnitID)
	if err != nil {
		return Context{}, fmt.Errorf("resolve unit: %w", err)
	}

	subject, err := r.store.GetSubject(ctx, unit.SubjectID)
	if err != nil {
		return Context{}, fmt.Errorf("resolve subject: %w", err)
	}

	grade, err := r.store.GetGrade(ctx, unit.GradeID)
	if err != nil {
		return Context{}, fmt.Errorf("resolve grade: %w", err)
	}

	return Context{Lesson: lesson, Unit: unit, Subject: subject, Grade: grade}, nil
}

// Validate checks a caller-supplied context for internal consistency and
// returns an *InconsistentContextError on the first violated relation. A
// valid context passes through unchanged.
func (r *Resolver) Validate(c Context) error {
	if c.Lesson.UnitID != c.Unit.ID {
		return &InconsistentContextError{Relation: "lesson.unit_id", Got: c.Lesson.UnitID, Want: c.Unit.ID}
	}
	if c.Unit.SubjectID != c.Subject.ID {
		return &InconsistentContextError{Relation: "unit.subject_id", Got: c.Unit.SubjectID, Want: c.Subject.ID}
	}
	if c.Unit.GradeID != c.Grade.ID {
		return &InconsistentContextError{Relation: "unit.grade_id", Got: c.Unit.GradeID, Want: c.Grade.ID}
	}
	return nil
}

// NextLesson returns the lesson following the given one within its unit,
// using the unit's lesson sequence. found is false when the lesson is the
// last of its unit.
func (r *Resolver) NextLesson(ctx context.Context, lessonID int64) (catalog.Lesson, bool, error) {
	lesson, err := r.store.GetLesson(ctx, lessonID)
	if err != nil {
		return catalog.Lesson{}, false, fmt.Errorf("resolve lesson: %w", err)
	}

	lessons, err := r.store.ListLessons(ctx, lesson.UnitID)
	if err != nil {
		return catalog.Lesson{}, false, fmt.Errorf("list unit lessons: %w", err)
	}

	for _, l := range lessons {
		if l.Seq == lesson.Seq+1 {
			return l, true, nil
		}
	}
	return catalog.Lesson{}, false, nil
}
