package catalog

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store and Writer for tests and local
// development. Slices preserve insertion order, which is the catalog's
// canonical ordering.
type MemoryStore struct {
	mu       sync.RWMutex
	grades   []Grade
	subjects []Subject
	units    []Unit
	lessons  []Lesson
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListSubjects(ctx context.Context) ([]Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Subject{}, s.subjects...), nil
}

func (s *MemoryStore) ListGrades(ctx context.Context) ([]Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Grade{}, s.grades...), nil
}

func (s *MemoryStore) ListUnits(ctx context.Context, subjectID, gradeID int64) ([]Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	units := []Unit{}
	for _, u := range s.units {
		if u.SubjectID == subjectID && u.GradeID == gradeID {
			units = append(units, u)
		}
	}
	return units, nil
}

func (s *MemoryStore) ListUnitsBySubject(ctx context.Context, subjectID int64) ([]Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	units := []Unit{}
	for _, u := range s.units {
		if u.SubjectID == subjectID {
			units = append(units, u)
		}
	}
	return units, nil
}

func (s *MemoryStore) ListLessons(ctx context.Context, unitID int64) ([]Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lessons := []Lesson{}
	for _, l := range s.lessons {
		if l.UnitID == unitID {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

func (s *MemoryStore) GetGrade(ctx context.Context, id int64) (Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return Grade{}, &NotFoundError{Entity: EntityGrade, ID: id}
}

func (s *MemoryStore) GetSubject(ctx context.Context, id int64) (Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subjects {
		if sub.ID == id {
			return sub, nil
		}
	}
	return Subject{}, &NotFoundError{Entity: EntitySubject, ID: id}
}

func (s *MemoryStore) GetUnit(ctx context.Context, id int64) (Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.units {
		if u.ID == id {
			return u, nil
		}
	}
	return Unit{}, &NotFoundError{Entity: EntityUnit, ID: id}
}

func (s *MemoryStore) GetLesson(ctx context.Context, id int64) (Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return Lesson{}, &NotFoundError{Entity: EntityLesson, ID: id}
}

func (s *MemoryStore) InsertGrade(ctx context.Context, name string) (Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := Grade{ID: int64(len(s.grades) + 1), Name: name}
	s.grades = append(s.grades, g)
	return g, nil
}

func (s *MemoryStore) InsertSubject(ctx context.Context, name, icon string) (Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := Subject{ID: int64(len(s.subjects) + 1), Name: name, Icon: icon}
	s.subjects = append(s.subjects, sub)
	return sub, nil
}

func (s *MemoryStore) InsertUnit(ctx context.Context, u Unit) (Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = int64(len(s.units) + 1)
	s.units = append(s.units, u)
	return u, nil
}

func (s *MemoryStore) InsertLesson(ctx context.Context, l Lesson) (Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = int64(len(s.lessons) + 1)
	seq := 0
	for _, existing := range s.lessons {
		if existing.UnitID == l.UnitID {
			seq++
		}
	}
	l.Seq = seq
	s.lessons = append(s.lessons, l)
	return l, nil
}
