package protocol

import (
	"fmt"
	"strings"
)

// ErrorCode identifies the type of error.
type ErrorCode uint16

const (
	ErrUnknown        ErrorCode = 0x0000 // Unknown error
	ErrInvalidFrame   ErrorCode = 0x0001 // Malformed frame
	ErrInvalidEvent   ErrorCode = 0x0002 // Malformed event
	ErrTargetNotFound ErrorCode = 0x0003 // No element for the target id
	ErrHandlerPanic   ErrorCode = 0x0004 // Handler panicked
	ErrSessionExpired ErrorCode = 0x0005 // Session no longer valid
	ErrRateLimited    ErrorCode = 0x0006 // Too many requests
	ErrNotMounted     ErrorCode = 0x0007 // Event before hello
	ErrStalePage      ErrorCode = 0x0008 // Page rendered from content the server no longer has
	ErrServerError    ErrorCode = 0x0100 // Internal server error
)

var errorCodeNames = map[ErrorCode]string{
	ErrUnknown:        "Unknown",
	ErrInvalidFrame:   "InvalidFrame",
	ErrInvalidEvent:   "InvalidEvent",
	ErrTargetNotFound: "TargetNotFound",
	ErrHandlerPanic:   "HandlerPanic",
	ErrSessionExpired: "SessionExpired",
	ErrRateLimited:    "RateLimited",
	ErrNotMounted:     "NotMounted",
	ErrStalePage:      "StalePage",
	ErrServerError:    "ServerError",
}

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	if name, ok := errorCodeNames[ec]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the code by name.
func (ec ErrorCode) MarshalText() ([]byte, error) {
	return []byte(ec.String()), nil
}

// UnmarshalText decodes a code name. Unknown names decode to ErrUnknown.
func (ec *ErrorCode) UnmarshalText(b []byte) error {
	name := string(b)
	for code, n := range errorCodeNames {
		if strings.EqualFold(n, name) {
			*ec = code
			return nil
		}
	}
	*ec = ErrUnknown
	return nil
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Fatal   bool      `json:"fatal,omitempty"`
}

// NewError creates a new non-fatal ErrorMessage.
func NewError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message}
}

// NewFatalError creates a new fatal ErrorMessage.
func NewFatalError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message, Fatal: true}
}

// Errorf creates a non-fatal ErrorMessage with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *ErrorMessage {
	return NewError(code, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code.String() + ": " + em.Message
	}
	return em.Code.String() + ": " + em.Message
}

// IsFatal returns true if this error should close the connection.
func (em *ErrorMessage) IsFatal() bool {
	return em.Fatal
}
