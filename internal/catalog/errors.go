package catalog

import (
	"errors"
	"fmt"
)

// Entity names used in NotFoundError attribution. The resolver reports which
// link of the ancestor chain broke using these values.
const (
	EntityGrade   = "grade"
	EntitySubject = "subject"
	EntityUnit    = "unit"
	EntityLesson  = "lesson"
)

// ErrStoreUnavailable indicates the backing store could not be reached. It is
// a transient failure; callers may retry.
var ErrStoreUnavailable = errors.New("catalog store unavailable")

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
}

// IsNotFound reports whether err is a NotFoundError for any entity.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
