package errors

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate a unique constraint rejected the write
var ErrDuplicate = errors.New("record already exists")

// IsDuplicate reports whether err stems from a unique constraint violation.
// Requires the gorm.Config TranslateError option.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
