package editor

import (
	"errors"
	"fmt"
)

// IntentErrorCode categorizes malformed intents.
type IntentErrorCode string

const (
	// ErrCodeUnknownIntent indicates an intent kind the editor does not handle.
	ErrCodeUnknownIntent IntentErrorCode = "UNKNOWN_INTENT"

	// ErrCodeInvalidIntent indicates a known kind with unusable fields
	// (bad color, bad line style, missing ids).
	ErrCodeInvalidIntent IntentErrorCode = "INVALID_INTENT"
)

// IntentError reports an intent that could not be applied at all.
// A valid intent aimed at a missing target is not an error.
type IntentError struct {
	Code    IntentErrorCode
	Kind    IntentKind
	Message string
}

func (e *IntentError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (kind=%s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsIntentError reports whether err is (or wraps) an *IntentError.
func IsIntentError(err error) bool {
	var ie *IntentError
	return errors.As(err, &ie)
}

// IntentErrorCodeOf returns the code of a wrapped *IntentError, or "".
func IntentErrorCodeOf(err error) IntentErrorCode {
	var ie *IntentError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

func invalidIntent(kind IntentKind, format string, args ...any) *IntentError {
	return &IntentError{
		Code:    ErrCodeInvalidIntent,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
