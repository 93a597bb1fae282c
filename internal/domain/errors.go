package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyMessage  = NewDomainError(ErrCodeValidation, "message is required")
	ErrInvalidURL    = NewDomainError(ErrCodeValidation, "url must be a valid http or https URL")
	ErrEmptyText     = NewDomainError(ErrCodeValidation, "text cannot be empty")
	ErrEmptyDocument = NewDomainError(ErrCodeValidation, "page produced no readable content")
)

// Not found errors
var (
	ErrSessionNotFound  = NewDomainError(ErrCodeNotFound, "session not found")
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
)

// Upstream errors: the embedding or completion backend rejected a call. These
// abort the current batch or request; they are never recovered page-by-page.
var (
	ErrEmbeddingFailed  = NewDomainError(ErrCodeUpstream, "embedding backend call failed")
	ErrCompletionFailed = NewDomainError(ErrCodeUpstream, "completion backend call failed")
)
