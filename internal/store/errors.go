package store

import "fmt"

// User-facing messages. Each failure replaces the previous one.
const (
	MsgLoadFailed    = "failed to load tasks"
	MsgAddFailed     = "failed to add task"
	MsgUpdateFailed  = "failed to update task"
	MsgDeleteFailed  = "failed to delete task"
	MsgEditFailed    = "failed to update task title"
	MsgTitleRequired = "title cannot be empty"
)

// ValidationError is raised client-side before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Failure is a failed operation: Msg is what the user sees, Err is the cause
// (usually a *service.TransportError).
type Failure struct {
	Msg string
	Err error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Msg
	}
	return fmt.Sprintf("%s: %v", f.Msg, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NotFoundError reports an intent naming an id that is not in the list.
// No request is sent in that case.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}
