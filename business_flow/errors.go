// Package businessflow contains the core business logic and use cases for the survey pipeline
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Ingestion errors
	ErrSpreadsheetFetchFailed = errors.New("spreadsheet fetch failed")

	// Survey errors
	ErrSurveyNotFound       = errors.New("survey not found")
	ErrInvalidCategory      = errors.New("invalid survey category")
	ErrSurveyUpdateRequired = errors.New("at least one field must be provided for update")

	// Notification errors
	ErrNoRecipientsConfigured = errors.New("no recipients configured")
	ErrEmptyMessage           = errors.New("message text is required")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsSurveyNotFound(err error) bool {
	return errors.Is(err, ErrSurveyNotFound)
}

func IsInvalidCategory(err error) bool {
	return errors.Is(err, ErrInvalidCategory)
}
