// Package catalog holds the read-mostly Grade/Subject/Unit/Lesson hierarchy
// that drives the dashboard and lesson views.
package catalog

// Grade is a school level such as "Primary 3". Reference data, immutable at runtime.
type Grade struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Subject is a teaching subject such as "Mathematics". The icon is a symbolic
// name resolved by the UI, not a URL.
type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Unit is a block of lessons within one subject at one grade. Multiple units
// may share a (subject, grade) pair.
type Unit struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SubjectID int64  `json:"subject_id"`
	GradeID   int64  `json:"grade_id"`
}

// Lesson is a single piece of content within a unit. Seq is the position of
// the lesson inside its unit and defines "next lesson" ordering.
type Lesson struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	UnitID   int64  `json:"unit_id"`
	VideoURL string `json:"video_url,omitempty"`
	Content  string `json:"content,omitempty"`
	Seq      int    `json:"seq"`
}
