package repository

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/apperrors"
	"gorm.io/gorm"
)

// translate maps GORM failures onto the application error kinds. Anything it
// does not recognise is returned unchanged and surfaces as a 500.
func translate(err error, notFound, duplicate string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(duplicate)
	default:
		return err
	}
}

// errStaleWrite is returned by guarded updates that matched no row because
// the record changed between read and write.
func errStaleWrite(what string) error {
	return apperrors.Conflict(what + " was modified concurrently, please retry")
}
