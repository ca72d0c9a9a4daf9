package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the category of error
type ErrorCategory string

const (
	// ErrorCategoryScheduler represents errors raised while building the system graph
	ErrorCategoryScheduler ErrorCategory = "SCHEDULER"
	// ErrorCategoryValidation represents invalid caller input
	ErrorCategoryValidation ErrorCategory = "VALIDATION"
	// ErrorCategoryConfiguration represents manifest and flag errors
	ErrorCategoryConfiguration ErrorCategory = "CONFIGURATION"
	// ErrorCategoryDispatch represents failures while running planned systems
	ErrorCategoryDispatch ErrorCategory = "DISPATCH"
)

// ErrorKind identifies what went wrong independently of the message text.
// Two SystemErrors with the same non-zero kind match under errors.Is.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindDuplicateSystem
	KindWouldCycle
	KindMissingDependentSystem
	KindInvalidSystem
	KindBuilderSpent
	KindManifest
	KindDispatch
)

// String returns a string representation of the ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateSystem:
		return "DuplicateSystem"
	case KindWouldCycle:
		return "WouldCycle"
	case KindMissingDependentSystem:
		return "MissingDependentSystem"
	case KindInvalidSystem:
		return "InvalidSystem"
	case KindBuilderSpent:
		return "BuilderSpent"
	case KindManifest:
		return "Manifest"
	case KindDispatch:
		return "Dispatch"
	default:
		return "Unknown"
	}
}

// SystemError represents a structured error with context and troubleshooting information
type SystemError struct {
	Kind            ErrorKind
	Category        ErrorCategory
	Code            string
	Message         string
	Operation       string
	Context         map[string]interface{}
	Troubleshooting []string
	OriginalError   error
}

// Error implements the error interface
func (e *SystemError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s-%s: %s", e.Category, e.Code, e.Message))

	if e.Operation != "" {
		sb.WriteString(fmt.Sprintf("\nOperation: %s", e.Operation))
	}

	if len(e.Context) > 0 {
		sb.WriteString("\nContext:")
		for _, key := range e.contextKeys() {
			sb.WriteString(fmt.Sprintf("\n  %s: %v", key, e.Context[key]))
		}
	}

	if len(e.Troubleshooting) > 0 {
		sb.WriteString("\nTroubleshooting:")
		for i, step := range e.Troubleshooting {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}

	if e.OriginalError != nil {
		sb.WriteString(fmt.Sprintf("\nUnderlying error: %v", e.OriginalError))
	}

	return sb.String()
}

// Unwrap returns the original error for error chain compatibility
func (e *SystemError) Unwrap() error {
	return e.OriginalError
}

// Is reports whether target is a SystemError of the same kind.
func (e *SystemError) Is(target error) bool {
	t, ok := target.(*SystemError)
	if !ok || t.Kind == KindUnknown {
		return false
	}
	return t.Kind == e.Kind
}

// System returns the system name recorded in the error context, if any.
func (e *SystemError) System() string {
	name, _ := e.Context["system"].(string)
	return name
}

// Summary returns the one-line header of the error.
func (e *SystemError) Summary() string {
	return fmt.Sprintf("%s-%s: %s", e.Category, e.Code, e.Message)
}

func (e *SystemError) contextKeys() []string {
	keys := make([]string, 0, len(e.Context))
	for key := range e.Context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// NewSystemError creates a new error with the specified parameters
func NewSystemError(kind ErrorKind, category ErrorCategory, code, message, operation string) *SystemError {
	return &SystemError{
		Kind:            kind,
		Category:        category,
		Code:            code,
		Message:         message,
		Operation:       operation,
		Context:         make(map[string]interface{}),
		Troubleshooting: []string{},
	}
}

// WithContext adds context information to the error
func (e *SystemError) WithContext(key string, value interface{}) *SystemError {
	e.Context[key] = value
	return e
}

// WithTroubleshooting adds troubleshooting steps to the error
func (e *SystemError) WithTroubleshooting(steps ...string) *SystemError {
	e.Troubleshooting = append(e.Troubleshooting, steps...)
	return e
}

// WithOriginalError adds the original error to the system error
func (e *SystemError) WithOriginalError(err error) *SystemError {
	e.OriginalError = err
	return e
}
