package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmitInFlight oldingi submit hali tugamagan
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrNotAdmin foydalanuvchi admin emas
	ErrNotAdmin = errors.New("user is not admin")

	// ErrNotEditing composer tahrirlash rejimida emas
	ErrNotEditing = errors.New("composer has no loaded product")
)

// ValidationError lokal aniqlangan noto'g'ri kiritish. Store ga yetib bormaydi.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError xato ValidationError ekanligini tekshirish
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
