// Package progress keeps the per-user completion ledger and computes the
// roll-up views the dashboard renders.
package progress

import "time"

// Progress is the per-user, per-subject aggregate row. Percent is stored
// denormalized but recomputed from SkillsMastered/TotalSkills on every write.
type Progress struct {
	ID             int64 `json:"id"`
	UserID         int64 `json:"user_id"`
	SubjectID      int64 `json:"subject_id"`
	Level          int   `json:"level"`
	SkillsMastered int   `json:"skills_mastered"`
	TotalSkills    int   `json:"total_skills"`
	Percent        int   `json:"percent"`
}

// UnitProgress tracks one unit under one Progress row.
type UnitProgress struct {
	ID         int64 `json:"id"`
	ProgressID int64 `json:"progress_id"`
	UnitID     int64 `json:"unit_id"`
	Completed  bool  `json:"completed"`
}

// VideoProgress is a leaf completion record for one lesson's video. Immutable
// once completed, except administrative reset.
type VideoProgress struct {
	ID             int64      `json:"id"`
	UnitProgressID int64      `json:"unit_progress_id"`
	LessonID       int64      `json:"lesson_id"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// QuizProgress is a leaf completion record for a quiz item.
type QuizProgress struct {
	ID             int64      `json:"id"`
	UnitProgressID int64      `json:"unit_progress_id"`
	ItemID         int64      `json:"item_id"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// PracticeProgress is a leaf completion record for a practice item.
type PracticeProgress struct {
	ID             int64      `json:"id"`
	UnitProgressID int64      `json:"unit_progress_id"`
	ItemID         int64      `json:"item_id"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// UnitCompletion is the derived completion view for one unit. Completed is
// true only when every lesson in the unit has a completed video record.
type UnitCompletion struct {
	UnitID          int64 `json:"unit_id"`
	Completed       bool  `json:"completed"`
	CompletedVideos int   `json:"completed_videos"`
	TotalVideos     int   `json:"total_videos"`
}

// CompletionRecord carries everything the ledger needs to record one video
// completion in a single transaction: the identity of the record plus the
// catalog-derived totals used for the parent roll-up.
type CompletionRecord struct {
	UserID      int64
	SubjectID   int64
	UnitID      int64
	LessonID    int64
	TotalSkills int // lessons in the subject, fixes total_skills on first insert
	TotalVideos int // lessons in the unit, drives the unit completed flag
}
