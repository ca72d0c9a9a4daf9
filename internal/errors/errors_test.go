package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemError_IsMatchesKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"duplicate system", NewDuplicateSystemError("physics"), ErrDuplicateSystem},
		{"would cycle", NewWouldCycleError("a", "b"), ErrWouldCycle},
		{"missing dependent", NewMissingDependentSystemError("input"), ErrMissingDependentSystem},
		{"invalid system", NewInvalidSystemError("empty name", "test"), ErrInvalidSystem},
		{"builder spent", NewBuilderSpentError("test"), ErrBuilderSpent},
		{"manifest", NewManifestError(CodeConfigRead, "cannot read", "x.yaml", nil), ErrManifest},
		{"dispatch", NewDispatchError("render", 10, fmt.Errorf("boom")), ErrDispatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, stderrors.Is(tt.err, tt.sentinel))

			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, stderrors.Is(wrapped, tt.sentinel))
		})
	}
}

func TestSystemError_IsRejectsOtherKinds(t *testing.T) {
	err := NewWouldCycleError("a", "b")

	assert.False(t, stderrors.Is(err, ErrMissingDependentSystem))
	assert.False(t, stderrors.Is(err, &SystemError{}))
	assert.False(t, stderrors.Is(err, fmt.Errorf("plain")))
}

func TestSystemError_CarriesSystemName(t *testing.T) {
	err := fmt.Errorf("build: %w", NewMissingDependentSystemError("Q"))

	var sysErr *SystemError
	require.True(t, stderrors.As(err, &sysErr))
	assert.Equal(t, "Q", sysErr.System())
	assert.Equal(t, KindMissingDependentSystem, sysErr.Kind)
}

func TestSystemError_ErrorFormat(t *testing.T) {
	err := NewWouldCycleError("render", "physics")
	msg := err.Error()

	assert.Contains(t, msg, "SCHEDULER-002")
	assert.Contains(t, msg, "Operation: Dependency registration")
	assert.Contains(t, msg, "dependency: physics")
	assert.Contains(t, msg, "system: render")
	assert.Contains(t, msg, "Troubleshooting:")
	assert.Less(t, strings.Index(msg, "dependency: physics"), strings.Index(msg, "system: render"), "context keys are sorted")
}

func TestNewWouldCycleError_SelfDependency(t *testing.T) {
	err := NewWouldCycleError("x", "x")
	assert.Contains(t, err.Message, "cannot depend on itself")
}

func TestSystemError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewDispatchError("save", 3, cause)

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestDisplayHelpers(t *testing.T) {
	sysErr := NewMissingDependentSystemError("input")
	plain := fmt.Errorf("something broke")

	t.Run("summary", func(t *testing.T) {
		assert.Equal(t, "SCHEDULER-003: System 'input' was declared as a dependency but never registered",
			DisplayErrorSummary(fmt.Errorf("wrapped: %w", sysErr)))
		assert.Equal(t, "something broke", DisplayErrorSummary(plain))
	})

	t.Run("summary truncates long messages", func(t *testing.T) {
		long := fmt.Errorf("%0120d", 0)
		summary := DisplayErrorSummary(long)
		assert.Len(t, summary, 100)
		assert.Contains(t, summary, "...")
	})

	t.Run("cli", func(t *testing.T) {
		out := FormatForCLI(sysErr)
		assert.Contains(t, out, "MissingDependentSystem Error [SCHEDULER-003]")
		assert.Contains(t, out, "How to resolve:")
		assert.Contains(t, out, "system: input")
		assert.Equal(t, "\nError: something broke\n", FormatForCLI(plain))
	})
}

