package service

import (
	"errors"
	"strings"
)

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrInvalidDeleteToken  = errors.New("invalid delete token")
	ErrDeletePeriodExpired = errors.New("delete period expired (24 hours)")
	ErrTooManyPhotos       = errors.New("maximum 5 photos allowed")
	ErrInvalidPhoto        = errors.New("invalid photo")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPermissionDenied    = errors.New("permission denied")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrAdminExists        = errors.New("admin user with this email already exists")
	ErrInvalidOldPassword = errors.New("invalid old password")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail for 400 responses.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
