package tracking

import (
	"errors"
	"fmt"
)

// ErrorCode is the server's error_code field. The set is open on the wire;
// only RESOURCE_DOES_NOT_EXIST is given special treatment by callers, every
// other value is handled generically.
type ErrorCode string

const (
	CodeResourceDoesNotExist ErrorCode = "RESOURCE_DOES_NOT_EXIST"
	CodeInvalidParameter     ErrorCode = "INVALID_PARAMETER_VALUE"
	CodePermissionDenied     ErrorCode = "PERMISSION_DENIED"
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"

	// CodeTransport marks failures that never produced a server error
	// envelope (connection refused, timeout, unparseable body).
	CodeTransport ErrorCode = "TRANSPORT_ERROR"
)

// APIError is a failed call to the tracking server.
type APIError struct {
	Code       ErrorCode `json:"error_code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"`
}

func (e *APIError) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("tracking: %s (http %d): %s", e.Code, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("tracking: %s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeResourceDoesNotExist
}
