package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeNotFound              ErrorCode = "NOT_FOUND"
	CodePreconditionViolation ErrorCode = "PRECONDITION_VIOLATION"
	CodeCyclicHydration       ErrorCode = "CYCLIC_HYDRATION"
	CodeNotImplemented        ErrorCode = "NOT_IMPLEMENTED"
	CodeValidationError       ErrorCode = "VALIDATION_ERROR"
	CodeInternal              ErrorCode = "INTERNAL_ERROR"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxFQSEN     = "fqsen"
	CtxOperation = "operation"
	CtxName      = "name"
	CtxPath      = "path"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// NotFound builds the error every Get* accessor returns on a miss.
func NotFound(operation, fqsen string) error {
	return (&DomainError{Code: CodeNotFound, Message: fqsen + " not found"}).
		WithContext(CtxOperation, operation).
		WithContext(CtxFQSEN, fqsen)
}

// AddContext attaches a context entry, wrapping foreign errors as internal.
func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
