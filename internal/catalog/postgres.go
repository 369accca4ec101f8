package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed catalog Store and Writer.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed catalog store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) ListSubjects(ctx context.Context) ([]Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, icon FROM subjects ORDER BY id ASC`)
	if err != nil {
		return nil, unavailable("list subjects", err)
	}
	defer rows.Close()

	subjects := []Subject{}
	for rows.Next() {
		var sub Subject
		var icon *string
		if err := rows.Scan(&sub.ID, &sub.Name, &icon); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		if icon != nil {
			sub.Icon = *icon
		}
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate subjects", err)
	}
	return subjects, nil
}

func (s *PostgresStore) ListGrades(ctx context.Context) ([]Grade, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id, name FROM grades ORDER BY id ASC`)
	if err != nil {
		return nil, unavailable("list grades", err)
	}
	defer rows.Close()

	grades := []Grade{}
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate grades", err)
	}
	return grades, nil
}

func (s *PostgresStore) ListUnits(ctx context.Context, subjectID, gradeID int64) ([]Unit, error) {
	return s.listUnits(ctx,
		`SELECT id, name, subject_id, grade_id FROM units
		 WHERE subject_id = $1 AND grade_id = $2
		 ORDER BY id ASC`,
		subjectID, gradeID)
}

func (s *PostgresStore) ListUnitsBySubject(ctx context.Context, subjectID int64) ([]Unit, error) {
	return s.listUnits(ctx,
		`SELECT id, name, subject_id, grade_id FROM units
		 WHERE subject_id = $1
		 ORDER BY id ASC`,
		subjectID)
}

func (s *PostgresStore) listUnits(ctx context.Context, query string, args ...any) ([]Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list units", err)
	}
	defer rows.Close()

	units := []Unit{}
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.SubjectID, &u.GradeID); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate units", err)
	}
	return units, nil
}

func (s *PostgresStore) ListLessons(ctx context.Context, unitID int64) ([]Lesson, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, unit_id, video_url, content, seq FROM lessons
		 WHERE unit_id = $1
		 ORDER BY seq ASC`,
		unitID)
	if err != nil {
		return nil, unavailable("list lessons", err)
	}
	defer rows.Close()

	lessons := []Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate lessons", err)
	}
	return lessons, nil
}

func (s *PostgresStore) GetGrade(ctx context.Context, id int64) (Grade, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var g Grade
	err := s.pool.QueryRow(ctx,
		`SELECT id, name FROM grades WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Grade{}, &NotFoundError{Entity: EntityGrade, ID: id}
	}
	if err != nil {
		return Grade{}, unavailable("get grade", err)
	}
	return g, nil
}

func (s *PostgresStore) GetSubject(ctx context.Context, id int64) (Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var sub Subject
	var icon *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, icon FROM subjects WHERE id = $1`, id).
		Scan(&sub.ID, &sub.Name, &icon)
	if errors.Is(err, pgx.ErrNoRows) {
		return Subject{}, &NotFoundError{Entity: EntitySubject, ID: id}
	}
	if err != nil {
		return Subject{}, unavailable("get subject", err)
	}
	if icon != nil {
		sub.Icon = *icon
	}
	return sub, nil
}

func (s *PostgresStore) GetUnit(ctx context.Context, id int64) (Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var u Unit
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, subject_id, grade_id FROM units WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.SubjectID, &u.GradeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Unit{}, &NotFoundError{Entity: EntityUnit, ID: id}
	}
	if err != nil {
		return Unit{}, unavailable("get unit", err)
	}
	return u, nil
}

func (s *PostgresStore) GetLesson(ctx context.Context, id int64) (Lesson, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT id, name, unit_id, video_url, content, seq FROM lessons WHERE id = $1`, id)
	l, err := scanLesson(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lesson{}, &NotFoundError{Entity: EntityLesson, ID: id}
	}
	if err != nil {
		return Lesson{}, unavailable("get lesson", err)
	}
	return l, nil
}

func (s *PostgresStore) InsertGrade(ctx context.Context, name string) (Grade, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	g := Grade{Name: name}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO grades (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		name).Scan(&g.ID)
	if err != nil {
		return Grade{}, fmt.Errorf("insert grade: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) InsertSubject(ctx context.Context, name, icon string) (Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sub := Subject{Name: name, Icon: icon}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO subjects (name, icon) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET icon = EXCLUDED.icon
		 RETURNING id`,
		name, nullIfEmpty(icon)).Scan(&sub.ID)
	if err != nil {
		return Subject{}, fmt.Errorf("insert subject: %w", err)
	}
	return sub, nil
}

func (s *PostgresStore) InsertUnit(ctx context.Context, u Unit) (Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO units (name, subject_id, grade_id) VALUES ($1, $2, $3)
		 RETURNING id`,
		u.Name, u.SubjectID, u.GradeID).Scan(&u.ID)
	if err != nil {
		return Unit{}, fmt.Errorf("insert unit: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) InsertLesson(ctx context.Context, l Lesson) (Lesson, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO lessons (name, unit_id, video_url, content, seq)
		 VALUES ($1, $2, $3, $4,
		   (SELECT COALESCE(MAX(seq) + 1, 0) FROM lessons WHERE unit_id = $2))
		 RETURNING id, seq`,
		l.Name, l.UnitID, nullIfEmpty(l.VideoURL), l.Content).Scan(&l.ID, &l.Seq)
	if err != nil {
		return Lesson{}, fmt.Errorf("insert lesson: %w", err)
	}
	return l, nil
}

func scanLesson(row pgx.Row) (Lesson, error) {
	var l Lesson
	var videoURL *string
	if err := row.Scan(&l.ID, &l.Name, &l.UnitID, &videoURL, &l.Content, &l.Seq); err != nil {
		return Lesson{}, err
	}
	if videoURL != nil {
		l.VideoURL = *videoURL
	}
	return l, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
