package nav_test

import (
	"context"
	"errors"
	"testing"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/nav"
)

func buildCatalog(t *testing.T) (*catalog.MemoryStore, catalog.Lesson) {
	t.Helper()
	ctx := t.Context()
	store := catalog.NewMemoryStore()

	grade, _ := store.InsertGrade(ctx, "Primary 1")
	subject, _ := store.InsertSubject(ctx, "Mathematics", "math")
	unit, _ := store.InsertUnit(ctx, catalog.Unit{Name: "Addition", SubjectID: subject.ID, GradeID: grade.ID})
	lesson, err := store.InsertLesson(ctx, catalog.Lesson{Name: "Adding to 10", UnitID: unit.ID})
	if err != nil {
		t.Fatalf("InsertLesson() error = %v", err)
	}
	return store, lesson
}

func TestResolver_Resolve_IntactChain(t *testing.T) {
	store, lesson := buildCatalog(t)
	resolver := nav.NewResolver(store)

	got, err := resolver.Resolve(t.Context(), lesson.ID)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got.Lesson.UnitID != got.Unit.ID {
		t.Errorf("lesson.UnitID = %d, unit.ID = %d, want equal", got.Lesson.UnitID, got.Unit.ID)
	}
	if got.Unit.SubjectID != got.Subject.ID {
		t.Errorf("unit.SubjectID = %d, subject.ID = %d, want equal", got.Unit.SubjectID, got.Subject.ID)
	}
	if got.Unit.GradeID != got.Grade.ID {
		t.Errorf("unit.GradeID = %d, grade.ID = %d, want equal", got.Unit.GradeID, got.Grade.ID)
	}
}

func TestResolver_Resolve_MissingLesson(t *testing.T) {
	store, _ := buildCatalog(t)
	resolver := nav.NewResolver(store)

	_, err := resolver.Resolve(t.Context(), 999)
	var nf *catalog.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Resolve() error = %v, want NotFoundError", err)
	}
	if nf.Entity != catalog.EntityLesson {
		t.Errorf("failed stage = %q, want %q", nf.Entity, catalog.EntityLesson)
	}
}

// brokenSubjectStore hides one subject to simulate a torn ancestor chain.
type brokenSubjectStore struct {
	catalog.Store
	hidden int64
}

func (s brokenSubjectStore) GetSubject(ctx context.Context, id int64) (catalog.Subject, error) {
	if id == s.hidden {
		return catalog.Subject{}, &catalog.NotFoundError{Entity: catalog.EntitySubject, ID: id}
	}
	return s.Store.GetSubject(ctx, id)
}

func TestResolver_Resolve_BrokenSubjectLink(t *testing.T) {
	store, lesson := buildCatalog(t)
	unit, err := store.GetUnit(t.Context(), lesson.UnitID)
	if err != nil {
		t.Fatalf("GetUnit() error = %v", err)
	}

	resolver := nav.NewResolver(brokenSubjectStore{Store: store, hidden: unit.SubjectID})

	_, err = resolver.Resolve(t.Context(), lesson.ID)
	var nf *catalog.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Resolve() error = %v, want NotFoundError", err)
	}
	if nf.Entity != catalog.EntitySubject {
		t.Errorf("failed stage = %q, want %q", nf.Entity, catalog.EntitySubject)
	}
}

func TestResolver_Validate(t *testing.T) {
	valid := nav.Context{
		Lesson:  catalog.Lesson{ID: 1, UnitID: 1},
		Unit:    catalog.Unit{ID: 1, SubjectID: 1, GradeID: 1},
		Subject: catalog.Subject{ID: 1},
		Grade:   catalog.Grade{ID: 1},
	}

	tests := []struct {
		name         string
		mutate       func(c nav.Context) nav.Context
		wantRelation string
	}{
		{
			name:   "consistent context passes",
			mutate: func(c nav.Context) nav.Context { return c },
		},
		{
			name: "lesson in different unit",
			mutate: func(c nav.Context) nav.Context {
				c.Lesson.UnitID = 2
				return c
			},
			wantRelation: "lesson.unit_id",
		},
		{
			name: "unit under wrong subject",
			mutate: func(c nav.Context) nav.Context {
				c.Unit.SubjectID = 9
				return c
			},
			wantRelation: "unit.subject_id",
		},
		{
			name: "unit under wrong grade",
			mutate: func(c nav.Context) nav.Context {
				c.Unit.GradeID = 3
				return c
			},
			wantRelation: "unit.grade_id",
		},
	}

	resolver := nav.NewResolver(catalog.NewMemoryStore())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolver.Validate(tt.mutate(valid))
			if tt.wantRelation == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var ic *nav.InconsistentContextError
			if !errors.As(err, &ic) {
				t.Fatalf("Validate() error = %v, want InconsistentContextError", err)
			}
			if ic.Relation != tt.wantRelation {
				t.Errorf("Relation = %q, want %q", ic.Relation, tt.wantRelation)
			}
		})
	}
}

func TestResolver_NextLesson(t *testing.T) {
	ctx := t.Context()
	store, first := buildCatalog(t)
	second, err := store.InsertLesson(ctx, catalog.Lesson{Name: "Adding to 20", UnitID: first.UnitID})
	if err != nil {
		t.Fatalf("InsertLesson() error = %v", err)
	}

	resolver := nav.NewResolver(store)

	next, found, err := resolver.NextLesson(ctx, first.ID)
	if err != nil {
		t.Fatalf("NextLesson() error = %v", err)
	}
	if !found {
		t.Fatal("NextLesson() found = false, want true")
	}
	if next.ID != second.ID {
		t.Errorf("next.ID = %d, want %d", next.ID, second.ID)
	}

	_, found, err = resolver.NextLesson(ctx, second.ID)
	if err != nil {
		t.Fatalf("NextLesson() error = %v", err)
	}
	if found {
		t.Error("NextLesson() on last lesson found = true, want false")
	}
}
