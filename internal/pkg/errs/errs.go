// internal/pkg/errs/errs.go
package errs

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors returned by the storage services. Handlers match on these
// with errors.Is to pick a response status; anything else is treated as a
// connectivity failure and propagated.
var (
	// ErrNotFound indicates a lookup by id or unique key matched no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a uniqueness constraint (username, email, slug,
	// cart line key) was violated on insert or update.
	ErrDuplicate = errors.New("duplicate record")

	// ErrInsufficientStock indicates a guarded stock decrement would have
	// taken the product below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Translate maps GORM's translated driver errors onto the service taxonomy.
// Requires the gorm.Config{TranslateError: true} connection option so the
// postgres and sqlite drivers surface gorm.ErrDuplicatedKey.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// IsNotFound reports whether err resolves to an absent row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err resolves to a constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
