package catalog

import "context"

// Store provides read access to the catalog hierarchy.
//
// List operations return entities in creation order. An empty slice is a
// valid result for the filtered lists; Get operations return a *NotFoundError
// when the id does not exist. Implementations wrap connection-level failures
// in ErrStoreUnavailable.
type Store interface {
	ListSubjects(ctx context.Context) ([]Subject, error)
	ListGrades(ctx context.Context) ([]Grade, error)
	ListUnits(ctx context.Context, subjectID, gradeID int64) ([]Unit, error)
	ListUnitsBySubject(ctx context.Context, subjectID int64) ([]Unit, error)
	ListLessons(ctx context.Context, unitID int64) ([]Lesson, error)
	GetGrade(ctx context.Context, id int64) (Grade, error)
	GetSubject(ctx context.Context, id int64) (Subject, error)
	GetUnit(ctx context.Context, id int64) (Unit, error)
	GetLesson(ctx context.Context, id int64) (Lesson, error)
}

// Writer is the authoring side of the catalog, used by the seed importer.
// Inserts return the stored entity with its assigned id.
type Writer interface {
	InsertGrade(ctx context.Context, name string) (Grade, error)
	InsertSubject(ctx context.Context, name, icon string) (Subject, error)
	InsertUnit(ctx context.Context, u Unit) (Unit, error)
	InsertLesson(ctx context.Context, l Lesson) (Lesson, error)
}
