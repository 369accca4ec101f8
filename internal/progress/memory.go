package progress

import (
	"context"
	"sync"
	"time"
)

type progressKey struct {
	userID    int64
	subjectID int64
}

type unitKey struct {
	progressID int64
	unitID     int64
}

type leafKey struct {
	unitProgressID int64
	itemID         int64
}

// MemoryLedger is an in-memory Ledger for tests and local development. The
// nested progress tree is stored as flat tables keyed by composite ids, the
// same layout the relational schema uses.
type MemoryLedger struct {
	mu        sync.RWMutex
	progress  map[progressKey]*Progress
	units     map[unitKey]*UnitProgress
	videos    map[leafKey]*VideoProgress
	quizzes   map[leafKey]*QuizProgress
	practices map[leafKey]*PracticeProgress
	nextID    int64
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		progress:  make(map[progressKey]*Progress),
		units:     make(map[unitKey]*UnitProgress),
		videos:    make(map[leafKey]*VideoProgress),
		quizzes:   make(map[leafKey]*QuizProgress),
		practices: make(map[leafKey]*PracticeProgress),
		nextID:    1,
	}
}

func (l *MemoryLedger) Progress(ctx context.Context, userID, subjectID int64) (Progress, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.progress[progressKey{userID, subjectID}]
	if !ok {
		return Progress{}, false, nil
	}
	return *p, true, nil
}

func (l *MemoryLedger) RecordVideoCompletion(ctx context.Context, rec CompletionRecord) (Progress, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.ensureProgress(rec)
	up := l.ensureUnitProgress(p.ID, rec.UnitID)

	key := leafKey{up.ID, rec.LessonID}
	if _, done := l.videos[key]; !done {
		now := time.Now()
		l.videos[key] = &VideoProgress{
			ID:             l.allocID(),
			UnitProgressID: up.ID,
			LessonID:       rec.LessonID,
			Completed:      true,
			CompletedAt:    &now,
		}
		if p.SkillsMastered+1 > p.TotalSkills {
			delete(l.videos, key)
			return Progress{}, &InvalidProgressUpdateError{
				UserID:    rec.UserID,
				SubjectID: rec.SubjectID,
				Mastered:  p.SkillsMastered + 1,
				Total:     p.TotalSkills,
			}
		}
		p.SkillsMastered++
		p.Percent = percentOf(p.SkillsMastered, p.TotalSkills)
	}

	up.Completed = rec.TotalVideos > 0 && l.completedVideosLocked(up.ID) >= rec.TotalVideos
	return *p, nil
}

func (l *MemoryLedger) RecordQuizCompletion(ctx context.Context, rec CompletionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.ensureProgress(rec)
	up := l.ensureUnitProgress(p.ID, rec.UnitID)
	key := leafKey{up.ID, rec.LessonID}
	if _, done := l.quizzes[key]; !done {
		now := time.Now()
		l.quizzes[key] = &QuizProgress{
			ID:             l.allocID(),
			UnitProgressID: up.ID,
			ItemID:         rec.LessonID,
			Completed:      true,
			CompletedAt:    &now,
		}
	}
	return nil
}

func (l *MemoryLedger) RecordPracticeCompletion(ctx context.Context, rec CompletionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.ensureProgress(rec)
	up := l.ensureUnitProgress(p.ID, rec.UnitID)
	key := leafKey{up.ID, rec.LessonID}
	if _, done := l.practices[key]; !done {
		now := time.Now()
		l.practices[key] = &PracticeProgress{
			ID:             l.allocID(),
			UnitProgressID: up.ID,
			ItemID:         rec.LessonID,
			Completed:      true,
			CompletedAt:    &now,
		}
	}
	return nil
}

func (l *MemoryLedger) CompletedVideoLessons(ctx context.Context, userID, unitID int64) (map[int64]bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	done := map[int64]bool{}
	for pk, p := range l.progress {
		if pk.userID != userID {
			continue
		}
		up, ok := l.units[unitKey{p.ID, unitID}]
		if !ok {
			continue
		}
		for vk, v := range l.videos {
			if vk.unitProgressID == up.ID && v.Completed {
				done[v.LessonID] = true
			}
		}
	}
	return done, nil
}

func (l *MemoryLedger) Reset(ctx context.Context, userID, subjectID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for pk, p := range l.progress {
		if pk.userID != userID {
			continue
		}
		if subjectID != 0 && pk.subjectID != subjectID {
			continue
		}
		for uk, up := range l.units {
			if uk.progressID != p.ID {
				continue
			}
			for vk := range l.videos {
				if vk.unitProgressID == up.ID {
					delete(l.videos, vk)
				}
			}
			for qk := range l.quizzes {
				if qk.unitProgressID == up.ID {
					delete(l.quizzes, qk)
				}
			}
			for prk := range l.practices {
				if prk.unitProgressID == up.ID {
					delete(l.practices, prk)
				}
			}
			delete(l.units, uk)
		}
		delete(l.progress, pk)
	}
	return nil
}

// ensureProgress returns the aggregate row for the record, creating it with
// the catalog-derived total on first interaction. An existing row picks up a
// grown total so catalog additions never turn a valid completion into an
// overflow. Callers hold the write lock.
func (l *MemoryLedger) ensureProgress(rec CompletionRecord) *Progress {
	key := progressKey{rec.UserID, rec.SubjectID}
	if p, ok := l.progress[key]; ok {
		if rec.TotalSkills > p.TotalSkills {
			p.TotalSkills = rec.TotalSkills
			p.Percent = percentOf(p.SkillsMastered, p.TotalSkills)
		}
		return p
	}
	p := &Progress{
		ID:          l.allocID(),
		UserID:      rec.UserID,
		SubjectID:   rec.SubjectID,
		TotalSkills: rec.TotalSkills,
	}
	l.progress[key] = p
	return p
}

func (l *MemoryLedger) ensureUnitProgress(progressID, unitID int64) *UnitProgress {
	key := unitKey{progressID, unitID}
	if up, ok := l.units[key]; ok {
		return up
	}
	up := &UnitProgress{ID: l.allocID(), ProgressID: progressID, UnitID: unitID}
	l.units[key] = up
	return up
}

func (l *MemoryLedger) completedVideosLocked(unitProgressID int64) int {
	n := 0
	for vk, v := range l.videos {
		if vk.unitProgressID == unitProgressID && v.Completed {
			n++
		}
	}
	return n
}

func (l *MemoryLedger) allocID() int64 {
	id := l.nextID
	l.nextID++
	return id
}
