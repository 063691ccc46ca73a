package usecase

import (
	"errors"

	"github.com/fastygo/tasktracker/domain"
)

// IsTransient reports whether a storage error may succeed on another attempt.
// Domain errors (not found, conflicts, validation) are final.
func IsTransient(err error) bool {
	var dErr *domain.Error
	return err != nil && !errors.As(err, &dErr)
}
