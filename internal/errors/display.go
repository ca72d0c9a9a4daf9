package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// DisplayErrorSummary provides a brief summary of the error for logs
func DisplayErrorSummary(err error) string {
	var sysErr *SystemError
	if stderrors.As(err, &sysErr) {
		return sysErr.Summary()
	}

	errStr := err.Error()
	if len(errStr) > 100 {
		return errStr[:97] + "..."
	}
	return errStr
}

// FormatForCLI formats an error for command-line display with proper spacing
func FormatForCLI(err error) string {
	var sysErr *SystemError
	if !stderrors.As(err, &sysErr) {
		return fmt.Sprintf("\nError: %v\n", err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n%s Error [%s-%s]\n", sysErr.Kind, sysErr.Category, sysErr.Code))
	sb.WriteString(fmt.Sprintf("  %s\n", sysErr.Message))

	if sysErr.Operation != "" {
		sb.WriteString(fmt.Sprintf("\nFailed Operation: %s\n", sysErr.Operation))
	}

	if len(sysErr.Context) > 0 {
		sb.WriteString("\nDetails:\n")
		for _, key := range sysErr.contextKeys() {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", key, sysErr.Context[key]))
		}
	}

	if len(sysErr.Troubleshooting) > 0 {
		sb.WriteString("\nHow to resolve:\n")
		for i, step := range sysErr.Troubleshooting {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	if sysErr.OriginalError != nil {
		sb.WriteString(fmt.Sprintf("\nTechnical details: %v\n", sysErr.OriginalError))
	}

	return sb.String()
}
