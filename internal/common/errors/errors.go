// Package errors provides the typed error taxonomy shared by the lifecycle core and the job workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeTransactionFailed ErrorCode = "TRANSACTION_FAILED"
	ErrCodeMappingFailed     ErrorCode = "MAPPING_FAILED"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeParse             ErrorCode = "PARSE_ERROR"
	ErrCodeUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so the sentinels below
// work with errors.Is regardless of message or details.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrValidation        = &StandardError{Code: ErrCodeValidationFailed}
	ErrInvalidTransition = &StandardError{Code: ErrCodeInvalidTransition}
	ErrNotFound          = &StandardError{Code: ErrCodeNotFound}
	ErrTransaction       = &StandardError{Code: ErrCodeTransactionFailed}
	ErrMapping           = &StandardError{Code: ErrCodeMappingFailed}
	ErrInternal          = &StandardError{Code: ErrCodeInternal}
	ErrUnavailable       = &StandardError{Code: ErrCodeUnavailable}
)

// ==========================
// 2. Error Constructors
// ==========================

// FieldError names a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidationError creates a non-retryable input error. Caught before any store access.
func NewValidationError(message string, fields ...FieldError) *StandardError {
	e := &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		e.Details = strings.Join(parts, "; ")
		e.Metadata = map[string]interface{}{"fields": fields}
	}
	return e
}

// NewInvalidTransitionError reports an illegal source state, a failed ownership
// check or a lost compare-and-swap race.
func NewInvalidTransitionError(entityType string, entityID int64, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   fmt.Sprintf("invalid transition for %s %d", entityType, entityID),
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"entityType": entityType,
			"entityId":   entityID,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError reports a referenced entity id that does not exist.
func NewNotFoundError(entityType string, entityID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s %d not found", entityType, entityID),
		Retryable: false,
		Metadata: map[string]interface{}{
			"entityType": entityType,
			"entityId":   entityID,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewTransactionError wraps a store failure inside an atomic unit. Always retryable by the caller.
func NewTransactionError(operation string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeTransactionFailed,
		Message:   fmt.Sprintf("transaction failed during %s", operation),
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMappingError is internal to the notification mapper and never reaches a caller.
func NewMappingError(kind, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMappingFailed,
		Message:   fmt.Sprintf("unrecognized %s", kind),
		Details:   value,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError reports a programming or wiring mistake.
func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnavailableError reports a dependency outside the transaction (search index,
// cache) that could not be reached. Retryable.
func NewUnavailableError(service string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeUnavailable,
		Message:   fmt.Sprintf("%s unavailable", service),
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewParseError reports job variables that are not valid JSON for the task input.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParse,
		Message:   "failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// AsStandard extracts a StandardError from an error chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first StandardError in the chain, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsDomainError reports whether err is one of the errors detected by validation or
// transition checks. These never need a retry: nothing was persisted.
func IsDomainError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidationFailed, ErrCodeInvalidTransition, ErrCodeNotFound:
		return true
	}
	return false
}

// IsRetryable reports whether the caller may retry later.
func IsRetryable(err error) bool {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Retryable
	}
	return false
}

// ==========================
// 4. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":     e.Code,
		"errorMessage":  e.Message,
		"errorDetails":  e.Details,
		"retryable":     e.Retryable,
		"errorCategory": GetErrorCategory(ErrorCode(e.Code)),
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ConvertToBPMNError maps a StandardError onto the BPMN error boundary.
// MAPPING_FAILED is never expected here; it is folded into INTERNAL_ERROR.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	code := stdErr.Code
	if code == ErrCodeMappingFailed {
		code = ErrCodeInternal
	}
	return &BPMNError{
		Code:           string(code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(code),
		ErrorVariables: stdErr.Metadata,
	}
}

// GetRetryCount returns how many job retries a code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeTransactionFailed, ErrCodeUnavailable:
		return 3
	default:
		return 0
	}
}

// GetErrorCategory separates "fix your input" from "try again later".
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeNotFound, ErrCodeInvalidTransition, ErrCodeParse:
		return "client"
	case ErrCodeTransactionFailed, ErrCodeUnavailable:
		return "transient"
	default:
		return "internal"
	}
}
