package registry

import "fmt"

// DuplicateCommandError is returned when registering a command whose id is
// already taken and replacement was not requested.
type DuplicateCommandError struct {
	ID CommandID
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %q is already registered", e.ID)
}

// NotFoundError is returned when executing an unknown command id.
type NotFoundError struct {
	ID CommandID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q is not registered", e.ID)
}

// CommandDisabledError is returned by Execute when the command's enablement
// expression evaluates false for the supplied context.
type CommandDisabledError struct {
	ID CommandID
}

func (e *CommandDisabledError) Error() string {
	return fmt.Sprintf("command %q is disabled in the current context", e.ID)
}

// CommandExecutionError wraps a failure raised by a command handler (or by
// argument resolution on its behalf), preserving the original cause.
type CommandExecutionError struct {
	ID  CommandID
	Err error
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.ID, e.Err)
}

func (e *CommandExecutionError) Unwrap() error { return e.Err }
