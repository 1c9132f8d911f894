package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a Failure independently of its transport code.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindCapacity        Kind = "capacity"
	KindConflict        Kind = "conflict"
	KindPolicyViolation Kind = "policy_violation"
	KindValidation      Kind = "validation"
	KindPermission      Kind = "permission"
	KindUnauthorized    Kind = "unauthorized"
	KindUnimplemented   Kind = "unimplemented"
	KindInternal        Kind = "internal"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter", Kind: KindValidation}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter", Kind: KindValidation}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions", Kind: KindPermission}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource", Kind: KindPermission}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Kind:    KindValidation,
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
		Kind:    KindValidation,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
		Kind:    KindUnauthorized,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Kind:    KindInternal,
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Message: methodName,
		Kind:    KindUnimplemented,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
		Kind:    KindNotFound,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
		Kind:    KindConflict,
	}
}

// Capacity returns a new Failure for a request that exceeds the remaining seats.
func Capacity(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
		Kind:    KindCapacity,
	}
}

// PolicyViolation returns a new Failure for a business rule that rejects an otherwise valid request.
func PolicyViolation(message string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Message: message,
		Kind:    KindPolicyViolation,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
		Kind:    KindPermission,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of an error interface, KindInternal for foreign errors.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) && fail.Kind != "" {
		return fail.Kind
	}

	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}

	return GetKind(err) == kind
}
