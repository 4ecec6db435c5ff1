package injection

import (
	"errors"
	"strings"
)

// ErrorCode classifies an injection failure. Codes are errors themselves so that
// errors.Is(err, UnknownTarget) matches any *Error carrying that code.
type ErrorCode int

const (
	_ ErrorCode = iota

	TargetNull                  // registration selector is absent
	TargetDuplicate             // registration selector already present
	UnknownTarget               // resolution or dependency references an unregistered selector
	RequestScopeContextRequired // request-scoped resolution without a context
	UnknownScope                // stored scope is neither Singleton nor Request
	TargetTypeBadResolver       // no stored value and the selector is not constructable
	SingletonScopeWrongContext  // singleton target declares a request-scoped dependency
	CircularDependency          // selector re-entered while resolving its own dependencies
	TargetSignatureMismatch     // constructor or factory cannot be called with the resolved arguments
	TargetConstructFailed       // constructor or factory returned a non-nil error
)

var codeNames = [...]string{
	TargetNull:                  "target null",
	TargetDuplicate:             "target duplicate",
	UnknownTarget:               "unknown target",
	RequestScopeContextRequired: "request scope context required",
	UnknownScope:                "unknown scope",
	TargetTypeBadResolver:       "target type bad resolver",
	SingletonScopeWrongContext:  "singleton scope wrong context",
	CircularDependency:          "circular dependency",
	TargetSignatureMismatch:     "target signature mismatch",
	TargetConstructFailed:       "target construct failed",
}

func (ss ErrorCode) String() string {
	if ss <= 0 || int(ss) >= len(codeNames) {
		return "unknown error code"
	}
	return codeNames[ss]
}

func (ss ErrorCode) Error() string {
	return "injection: " + ss.String()
}

var _ error = (*Error)(nil)

// Error is the only error type raised by the container.
type Error struct {
	Code       ErrorCode
	Message    string
	Target     Selector // optional
	Dependency Selector // optional
	Cause      error    // set for TargetConstructFailed
}

func newError(code ErrorCode, message string, target, dependency Selector) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Target:     target,
		Dependency: dependency,
	}
}

func (ss *Error) Error() string {
	sb := strings.Builder{}
	sb.WriteString("injection: ")
	if len(ss.Message) == 0 {
		sb.WriteString(ss.Code.String())
	} else {
		sb.WriteString(ss.Message)
	}
	if ss.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(ss.Cause.Error())
	}
	return sb.String()
}

// HasCode reports whether the error carries the given code.
func (ss *Error) HasCode(code ErrorCode) bool {
	return ss.Code == code
}

func (ss *Error) Unwrap() error {
	return ss.Cause
}

func (ss *Error) Is(target error) bool {
	if code, ok := target.(ErrorCode); ok {
		return ss.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or zero.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
