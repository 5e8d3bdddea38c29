package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("brief not found")
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidStatus = errors.New("invalid workflow status")
	ErrPermission    = errors.New("permission denied")
)

// ValidationError указывает первое невалидное поле, чтобы форма могла его подсветить
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
