package catalog_test

import (
	"errors"
	"testing"

	"github.com/afrolearn/afrolearn/internal/catalog"
)

func seedStore(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	ctx := t.Context()
	store := catalog.NewMemoryStore()

	grade, err := store.InsertGrade(ctx, "Primary 1")
	if err != nil {
		t.Fatalf("InsertGrade() error = %v", err)
	}
	subject, err := store.InsertSubject(ctx, "Mathematics", "math")
	if err != nil {
		t.Fatalf("InsertSubject() error = %v", err)
	}
	unit, err := store.InsertUnit(ctx, catalog.Unit{Name: "Addition", SubjectID: subject.ID, GradeID: grade.ID})
	if err != nil {
		t.Fatalf("InsertUnit() error = %v", err)
	}
	for _, name := range []string{"Adding to 10", "Adding to 20"} {
		if _, err := store.InsertLesson(ctx, catalog.Lesson{Name: name, UnitID: unit.ID}); err != nil {
			t.Fatalf("InsertLesson(%q) error = %v", name, err)
		}
	}
	return store
}

func TestMemoryStore_ListSubjects_CreationOrder(t *testing.T) {
	ctx := t.Context()
	store := catalog.NewMemoryStore()

	for _, name := range []string{"Mathematics", "Science", "History"} {
		if _, err := store.InsertSubject(ctx, name, ""); err != nil {
			t.Fatalf("InsertSubject(%q) error = %v", name, err)
		}
	}

	subjects, err := store.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("ListSubjects() error = %v", err)
	}
	want := []string{"Mathematics", "Science", "History"}
	if len(subjects) != len(want) {
		t.Fatalf("subjects count = %d, want %d", len(subjects), len(want))
	}
	for i, name := range want {
		if subjects[i].Name != name {
			t.Errorf("subjects[%d].Name = %q, want %q", i, subjects[i].Name, name)
		}
	}
}

func TestMemoryStore_ListUnits_EmptyCatalog(t *testing.T) {
	store := catalog.NewMemoryStore()

	units, err := store.ListUnits(t.Context(), 42, 7)
	if err != nil {
		t.Fatalf("ListUnits() error = %v", err)
	}
	if len(units) != 0 {
		t.Errorf("units count = %d, want 0", len(units))
	}
	if units == nil {
		t.Error("ListUnits() returned nil, want empty slice")
	}
}

func TestMemoryStore_ListUnits_FiltersBothKeys(t *testing.T) {
	ctx := t.Context()
	store := catalog.NewMemoryStore()

	g1, _ := store.InsertGrade(ctx, "Primary 1")
	g2, _ := store.InsertGrade(ctx, "Primary 2")
	sub, _ := store.InsertSubject(ctx, "Mathematics", "")

	store.InsertUnit(ctx, catalog.Unit{Name: "Addition", SubjectID: sub.ID, GradeID: g1.ID})
	store.InsertUnit(ctx, catalog.Unit{Name: "Subtraction", SubjectID: sub.ID, GradeID: g1.ID})
	store.InsertUnit(ctx, catalog.Unit{Name: "Multiplication", SubjectID: sub.ID, GradeID: g2.ID})

	units, err := store.ListUnits(ctx, sub.ID, g1.ID)
	if err != nil {
		t.Fatalf("ListUnits() error = %v", err)
	}
	if len(units) != 2 {
		t.Errorf("units count = %d, want 2", len(units))
	}
}

func TestMemoryStore_LessonSequence(t *testing.T) {
	store := seedStore(t)

	lessons, err := store.ListLessons(t.Context(), 1)
	if err != nil {
		t.Fatalf("ListLessons() error = %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("lessons count = %d, want 2", len(lessons))
	}
	for i, l := range lessons {
		if l.Seq != i {
			t.Errorf("lessons[%d].Seq = %d, want %d", i, l.Seq, i)
		}
	}
}

func TestMemoryStore_GetLesson_NotFound(t *testing.T) {
	store := catalog.NewMemoryStore()

	_, err := store.GetLesson(t.Context(), 99)
	var nf *catalog.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("GetLesson() error = %v, want NotFoundError", err)
	}
	if nf.Entity != catalog.EntityLesson {
		t.Errorf("Entity = %q, want %q", nf.Entity, catalog.EntityLesson)
	}
	if nf.ID != 99 {
		t.Errorf("ID = %d, want 99", nf.ID)
	}
}

func TestMemoryStore_GetUnit_NotFound(t *testing.T) {
	store := catalog.NewMemoryStore()

	_, err := store.GetUnit(t.Context(), 7)
	if !catalog.IsNotFound(err) {
		t.Fatalf("GetUnit() error = %v, want NotFoundError", err)
	}
}
