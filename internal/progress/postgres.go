package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/afrolearn/afrolearn/internal/catalog"
)

const dbTimeout = 5 * time.Second

// PostgresLedger is a PostgreSQL-backed Ledger. Idempotence rests on the
// unique keys (user_id, subject_id) on progress, (progress_id, unit_id) on
// unit_progress and (unit_progress_id, lesson_id) on the leaf tables; each
// record call runs in one transaction so the leaf upsert and the parent
// increment commit or roll back together.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger creates a PostgreSQL-backed progress ledger.
func NewPostgresLedger(pool *pgxpool.Pool) (*PostgresLedger, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresLedger{pool: pool}, nil
}

func (l *PostgresLedger) Progress(ctx context.Context, userID, subjectID int64) (Progress, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var p Progress
	err := l.pool.QueryRow(ctx,
		`SELECT id, user_id, subject_id, level, skills_mastered, total_skills, percent
		 FROM progress
		 WHERE user_id = $1 AND subject_id = $2`,
		userID, subjectID,
	).Scan(&p.ID, &p.UserID, &p.SubjectID, &p.Level, &p.SkillsMastered, &p.TotalSkills, &p.Percent)
	if errors.Is(err, pgx.ErrNoRows) {
		return Progress{}, false, nil
	}
	if err != nil {
		return Progress{}, false, unavailable("get progress", err)
	}
	return p, true, nil
}

func (l *PostgresLedger) RecordVideoCompletion(ctx context.Context, rec CompletionRecord) (Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return Progress{}, unavailable("begin", err)
	}
	defer tx.Rollback(ctx)

	progressID, err := ensureProgressRow(ctx, tx, rec)
	if err != nil {
		return Progress{}, err
	}
	unitProgressID, err := ensureUnitProgressRow(ctx, tx, progressID, rec.UnitID)
	if err != nil {
		return Progress{}, err
	}

	// DO NOTHING on conflict makes the second completion a no-op; RowsAffected
	// tells us whether this call actually created the record.
	cmd, err := tx.Exec(ctx,
		`INSERT INTO video_progress (unit_progress_id, lesson_id, completed, completed_at)
		 VALUES ($1, $2, TRUE, NOW())
		 ON CONFLICT (unit_progress_id, lesson_id) DO NOTHING`,
		unitProgressID, rec.LessonID)
	if err != nil {
		return Progress{}, unavailable("insert video progress", err)
	}

	if cmd.RowsAffected() > 0 {
		incr, err := tx.Exec(ctx,
			`UPDATE progress
			 SET skills_mastered = skills_mastered + 1,
			     percent = ROUND((skills_mastered + 1) * 100.0 / NULLIF(total_skills, 0))
			 WHERE id = $1 AND skills_mastered + 1 <= total_skills`,
			progressID)
		if err != nil {
			return Progress{}, unavailable("increment skills", err)
		}
		if incr.RowsAffected() == 0 {
			var mastered, total int
			if err := tx.QueryRow(ctx,
				`SELECT skills_mastered, total_skills FROM progress WHERE id = $1`,
				progressID).Scan(&mastered, &total); err != nil {
				return Progress{}, unavailable("read skills counters", err)
			}
			return Progress{}, &InvalidProgressUpdateError{
				UserID:    rec.UserID,
				SubjectID: rec.SubjectID,
				Mastered:  mastered + 1,
				Total:     total,
			}
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE unit_progress up
		 SET completed = $2 > 0 AND
		   (SELECT COUNT(*) FROM video_progress vp
		    WHERE vp.unit_progress_id = up.id AND vp.completed) >= $2
		 WHERE up.id = $1`,
		unitProgressID, rec.TotalVideos); err != nil {
		return Progress{}, unavailable("update unit completion", err)
	}

	var p Progress
	if err := tx.QueryRow(ctx,
		`SELECT id, user_id, subject_id, level, skills_mastered, total_skills, percent
		 FROM progress WHERE id = $1`,
		progressID,
	).Scan(&p.ID, &p.UserID, &p.SubjectID, &p.Level, &p.SkillsMastered, &p.TotalSkills, &p.Percent); err != nil {
		return Progress{}, unavailable("read progress", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Progress{}, unavailable("commit", err)
	}
	return p, nil
}

func (l *PostgresLedger) RecordQuizCompletion(ctx context.Context, rec CompletionRecord) error {
	return l.recordLeaf(ctx, "quiz_progress", rec)
}

func (l *PostgresLedger) RecordPracticeCompletion(ctx context.Context, rec CompletionRecord) error {
	return l.recordLeaf(ctx, "practice_progress", rec)
}

// recordLeaf stores a quiz or practice completion. These records do not feed
// the skills counters, so no parent update is needed beyond row creation.
func (l *PostgresLedger) recordLeaf(ctx context.Context, table string, rec CompletionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return unavailable("begin", err)
	}
	defer tx.Rollback(ctx)

	progressID, err := ensureProgressRow(ctx, tx, rec)
	if err != nil {
		return err
	}
	unitProgressID, err := ensureUnitProgressRow(ctx, tx, progressID, rec.UnitID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (unit_progress_id, item_id, completed, completed_at)
		 VALUES ($1, $2, TRUE, NOW())
		 ON CONFLICT (unit_progress_id, item_id) DO NOTHING`, table),
		unitProgressID, rec.LessonID); err != nil {
		return unavailable("insert "+table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func (l *PostgresLedger) CompletedVideoLessons(ctx context.Context, userID, unitID int64) (map[int64]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := l.pool.Query(ctx,
		`SELECT vp.lesson_id
		 FROM video_progress vp
		 JOIN unit_progress up ON up.id = vp.unit_progress_id
		 JOIN progress p ON p.id = up.progress_id
		 WHERE p.user_id = $1 AND up.unit_id = $2 AND vp.completed`,
		userID, unitID)
	if err != nil {
		return nil, unavailable("query completed videos", err)
	}
	defer rows.Close()

	done := map[int64]bool{}
	for rows.Next() {
		var lessonID int64
		if err := rows.Scan(&lessonID); err != nil {
			return nil, fmt.Errorf("scan lesson id: %w", err)
		}
		done[lessonID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate completed videos", err)
	}
	return done, nil
}

func (l *PostgresLedger) Reset(ctx context.Context, userID, subjectID int64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	// Leaf tables cascade from progress, so one delete covers the whole tree.
	var cmd string
	args := []any{userID}
	if subjectID != 0 {
		cmd = `DELETE FROM progress WHERE user_id = $1 AND subject_id = $2`
		args = append(args, subjectID)
	} else {
		cmd = `DELETE FROM progress WHERE user_id = $1`
	}
	if _, err := l.pool.Exec(ctx, cmd, args...); err != nil {
		return unavailable("reset progress", err)
	}
	return nil
}

// ensureProgressRow upserts the aggregate row. The conflict branch refreshes
// total_skills so a catalog that grew after the row was created cannot make a
// later valid completion look like an overflow.
func ensureProgressRow(ctx context.Context, tx pgx.Tx, rec CompletionRecord) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO progress (user_id, subject_id, level, skills_mastered, total_skills, percent)
		 VALUES ($1, $2, 0, 0, $3, 0)
		 ON CONFLICT (user_id, subject_id) DO UPDATE
		   SET total_skills = GREATEST(progress.total_skills, EXCLUDED.total_skills)
		 RETURNING id`,
		rec.UserID, rec.SubjectID, rec.TotalSkills).Scan(&id)
	if err != nil {
		return 0, unavailable("ensure progress row", err)
	}
	return id, nil
}

func ensureUnitProgressRow(ctx context.Context, tx pgx.Tx, progressID, unitID int64) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO unit_progress (progress_id, unit_id, completed)
		 VALUES ($1, $2, FALSE)
		 ON CONFLICT (progress_id, unit_id) DO UPDATE SET progress_id = EXCLUDED.progress_id
		 RETURNING id`,
		progressID, unitID).Scan(&id)
	if err != nil {
		return 0, unavailable("ensure unit progress row", err)
	}
	return id, nil
}

// unavailable marks a connection-level failure retryable, matching the
// catalog store's error taxonomy.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, catalog.ErrStoreUnavailable, err)
}
