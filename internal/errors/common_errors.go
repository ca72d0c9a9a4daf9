package errors

import (
	"fmt"
)

// Common error codes
const (
	// Scheduler error codes
	CodeDuplicateSystem        = "001"
	CodeWouldCycle             = "002"
	CodeMissingDependentSystem = "003"
	CodeBuilderSpent           = "004"

	// Validation error codes
	CodeValidationSystem = "001"

	// Configuration error codes
	CodeConfigFormat = "001"
	CodeConfigSystem = "002"
	CodeConfigEmpty  = "003"
	CodeConfigRead   = "004"
	CodeConfigDecode = "005"

	// Dispatch error codes
	CodeDispatchFailed    = "001"
	CodeDispatchCancelled = "002"
)

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrDuplicateSystem        = &SystemError{Kind: KindDuplicateSystem, Category: ErrorCategoryScheduler, Code: CodeDuplicateSystem, Message: "duplicate system"}
	ErrWouldCycle             = &SystemError{Kind: KindWouldCycle, Category: ErrorCategoryScheduler, Code: CodeWouldCycle, Message: "dependency would create a cycle"}
	ErrMissingDependentSystem = &SystemError{Kind: KindMissingDependentSystem, Category: ErrorCategoryScheduler, Code: CodeMissingDependentSystem, Message: "missing dependent system"}
	ErrInvalidSystem          = &SystemError{Kind: KindInvalidSystem, Category: ErrorCategoryValidation, Code: CodeValidationSystem, Message: "invalid system"}
	ErrBuilderSpent           = &SystemError{Kind: KindBuilderSpent, Category: ErrorCategoryScheduler, Code: CodeBuilderSpent, Message: "builder already built"}
	ErrManifest               = &SystemError{Kind: KindManifest, Category: ErrorCategoryConfiguration, Code: CodeConfigDecode, Message: "invalid manifest"}
	ErrDispatch               = &SystemError{Kind: KindDispatch, Category: ErrorCategoryDispatch, Code: CodeDispatchFailed, Message: "dispatch failed"}
)

// NewDuplicateSystemError signals a name present in the node table without a graph node.
// It indicates a broken builder invariant rather than bad input.
func NewDuplicateSystemError(name string) *SystemError {
	return NewSystemError(KindDuplicateSystem, ErrorCategoryScheduler, CodeDuplicateSystem,
		fmt.Sprintf("System '%s' is registered without a graph node", name),
		"System registration").
		WithContext("system", name).
		WithTroubleshooting(
			"This is an internal consistency failure in the scheduler builder",
			"Report the registration sequence that produced it",
		)
}

// NewWouldCycleError creates an error for a dependency edge that would close a cycle
func NewWouldCycleError(system, dependency string) *SystemError {
	msg := fmt.Sprintf("System '%s' cannot depend on '%s': dependency would create a cycle", system, dependency)
	if system == dependency {
		msg = fmt.Sprintf("System '%s' cannot depend on itself", system)
	}
	return NewSystemError(KindWouldCycle, ErrorCategoryScheduler, CodeWouldCycle, msg, "Dependency registration").
		WithContext("system", system).
		WithContext("dependency", dependency).
		WithTroubleshooting(
			fmt.Sprintf("Check whether '%s' already depends on '%s', directly or transitively", dependency, system),
			"Split shared work into a separate system both can depend on",
		)
}

// NewMissingDependentSystemError creates the error raised by an unresolved placeholder at build time
func NewMissingDependentSystemError(name string) *SystemError {
	return NewSystemError(KindMissingDependentSystem, ErrorCategoryScheduler, CodeMissingDependentSystem,
		fmt.Sprintf("System '%s' was declared as a dependency but never registered", name),
		"Schedule build").
		WithContext("system", name).
		WithTroubleshooting(
			fmt.Sprintf("Register a system named '%s' before building", name),
			"Check the dependency name for typos",
		)
}

// NewInvalidSystemError creates an error for a rejected registration argument
func NewInvalidSystemError(reason, operation string) *SystemError {
	return NewSystemError(KindInvalidSystem, ErrorCategoryValidation, CodeValidationSystem, reason, operation)
}

// NewBuilderSpentError creates an error for use of a builder after Build
func NewBuilderSpentError(operation string) *SystemError {
	return NewSystemError(KindBuilderSpent, ErrorCategoryScheduler, CodeBuilderSpent,
		"Builder has already been built", operation).
		WithTroubleshooting("Create a new builder for each schedule")
}

// NewManifestError creates an error for manifest loading and validation failures
func NewManifestError(code, message, path string, originalErr error) *SystemError {
	err := NewSystemError(KindManifest, ErrorCategoryConfiguration, code, message, "Manifest loading")
	if path != "" {
		err = err.WithContext("path", path)
	}
	if originalErr != nil {
		err = err.WithOriginalError(originalErr)
	}
	return err
}

// NewDispatchError creates an error for a system that failed while the plan was running
func NewDispatchError(system string, priority int32, originalErr error) *SystemError {
	errMsg := fmt.Sprintf("System '%s' failed", system)
	if originalErr != nil {
		errMsg = fmt.Sprintf("System '%s' failed: %v", system, originalErr)
	}
	return NewSystemError(KindDispatch, ErrorCategoryDispatch, CodeDispatchFailed, errMsg, "Plan dispatch").
		WithContext("system", system).
		WithContext("priority", priority).
		WithOriginalError(originalErr)
}

// NewDispatchCancelledError creates an error for a dispatch stopped by its context
func NewDispatchCancelledError(remaining int, originalErr error) *SystemError {
	return NewSystemError(KindDispatch, ErrorCategoryDispatch, CodeDispatchCancelled,
		fmt.Sprintf("Dispatch cancelled with %d systems not run", remaining), "Plan dispatch").
		WithContext("remaining", remaining).
		WithOriginalError(originalErr)
}
