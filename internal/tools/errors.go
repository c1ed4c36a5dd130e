package tools

import "fmt"

// ForbiddenError indicates the caller is not on the allow-list for a
// privileged tool.
type ForbiddenError struct {
	Username string
	Tool     string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("user %q is not allowed to call %s", e.Username, e.Tool)
}

// NotConfiguredError indicates an optional integration was invoked
// without its credentials configured.
type NotConfiguredError struct {
	Integration string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("%s integration is not configured", e.Integration)
}

// InvalidInputError reports a tool argument that failed validation at the
// boundary, before any external call.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
