package village

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("village not found")

// NotFoundError reports a name that is not in the reference set.
// Name holds the normalized input.
type NotFoundError struct {
	Name   string
	Tehsil string
}

func (e *NotFoundError) Error() string {
	if e.Tehsil == "" {
		return fmt.Sprintf("village %q not found", e.Name)
	}
	return fmt.Sprintf("village %q not found in %s dataset", e.Name, e.Tehsil)
}

// Is lets errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
