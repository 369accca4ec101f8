package progress

import (
	"context"
	"fmt"
	"math"
)

// InvalidProgressUpdateError reports a write that would push SkillsMastered
// past TotalSkills. The ledger rejects such writes instead of clamping; this
// signals a data-integrity defect and is logged as such.
type InvalidProgressUpdateError struct {
	UserID    int64
	SubjectID int64
	Mastered  int
	Total     int
}

func (e *InvalidProgressUpdateError) Error() string {
	return fmt.Sprintf("invalid progress update for user %d subject %d: skills mastered %d exceeds total %d",
		e.UserID, e.SubjectID, e.Mastered, e.Total)
}

// Ledger persists granular completion records and the per-subject aggregate
// rows derived from them.
//
// RecordVideoCompletion is idempotent: recording an already-completed lesson
// changes nothing and returns the same snapshot. Implementations must make
// the upsert and the parent increment atomic.
type Ledger interface {
	// Progress returns the aggregate row for (user, subject). found is false
	// when the user has not started the subject; that is a valid state, not
	// an error.
	Progress(ctx context.Context, userID, subjectID int64) (Progress, bool, error)

	// RecordVideoCompletion upserts the video completion record and, when the
	// record is new, increments the parent row's SkillsMastered.
	RecordVideoCompletion(ctx context.Context, rec CompletionRecord) (Progress, error)

	// RecordQuizCompletion and RecordPracticeCompletion store leaf records
	// without touching the skills counters.
	RecordQuizCompletion(ctx context.Context, rec CompletionRecord) error
	RecordPracticeCompletion(ctx context.Context, rec CompletionRecord) error

	// CompletedVideoLessons returns the set of lesson ids with a completed
	// video record for (user, unit).
	CompletedVideoLessons(ctx context.Context, userID, unitID int64) (map[int64]bool, error)

	// Reset deletes all progress rows for (user, subject) atomically. A
	// subjectID of 0 resets every subject for the user.
	Reset(ctx context.Context, userID, subjectID int64) error
}

// percentOf computes the rounded percentage for a skills counter pair.
// A zero total yields zero.
func percentOf(mastered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(mastered) / float64(total) * 100))
}
