package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FailureCode identifies a class of recoverable command failure.
type FailureCode string

const (
	CodeEmptyCommandText          FailureCode = "EmptyCommandText"
	CodeNonPositiveTimeout        FailureCode = "NonPositiveTimeout"
	CodeMissingWhereClause        FailureCode = "MissingWhereClause"
	CodeDuplicateParameterName    FailureCode = "DuplicateParameterName"
	CodeInvalidIdentifier         FailureCode = "InvalidIdentifier"
	CodeUnsupportedExpressionKind FailureCode = "UnsupportedExpressionKind"
	CodeUnsupportedOperator       FailureCode = "UnsupportedOperator"
)

// Sentinel failures for errors.Is matching. Matching is by code, so a
// detailed failure built with NewFailure matches its bare sentinel.
var (
	ErrEmptyCommandText          = &Failure{Code: CodeEmptyCommandText, Message: "command text is empty"}
	ErrNonPositiveTimeout        = &Failure{Code: CodeNonPositiveTimeout, Message: "timeout must be positive"}
	ErrMissingWhereClause        = &Failure{Code: CodeMissingWhereClause, Message: "data-modifying command lacks a WHERE guard"}
	ErrDuplicateParameterName    = &Failure{Code: CodeDuplicateParameterName, Message: "duplicate parameter name"}
	ErrInvalidIdentifier         = &Failure{Code: CodeInvalidIdentifier, Message: "identifier not allowed"}
	ErrUnsupportedExpressionKind = &Failure{Code: CodeUnsupportedExpressionKind, Message: "unsupported expression kind"}
	ErrUnsupportedOperator       = &Failure{Code: CodeUnsupportedOperator, Message: "unsupported operator"}
)

// Failure is a typed, recoverable validation or translation failure.
// Expected malformed input is reported this way; it is never panicked.
type Failure struct {
	Code    FailureCode
	Message string
	Details map[string]string
}

// NewFailure constructs a failure with a formatted message.
func NewFailure(code FailureCode, format string, args ...any) *Failure {
	return &Failure{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail attaches a named detail and returns the failure.
func (f *Failure) WithDetail(key, value string) *Failure {
	if f.Details == nil {
		f.Details = make(map[string]string, 1)
	}
	f.Details[key] = value
	return f
}

// Error formats the failure as "Code: message" plus sorted details.
func (f *Failure) Error() string {
	var sb strings.Builder
	sb.WriteString(string(f.Code))
	sb.WriteString(": ")
	sb.WriteString(f.Message)
	if len(f.Details) > 0 {
		keys := make([]string, 0, len(f.Details))
		for k := range f.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%s", k, f.Details[k])
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Is matches failures by code so errors.Is(err, ErrMissingWhereClause)
// works regardless of message or details.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Code == f.Code
}

// AsFailure extracts a *Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsFailureCode reports whether err carries the given failure code.
func IsFailureCode(err error, code FailureCode) bool {
	f, ok := AsFailure(err)
	return ok && f.Code == code
}
