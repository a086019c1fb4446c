package store

// EditState tracks which task, if any, is being edited.
// It is either NotEditing() or Editing(id); there is no per-task flag, so at
// most one task can be in edit mode.
type EditState struct {
	id     int64
	active bool
}

// NotEditing returns the idle edit state.
func NotEditing() EditState {
	return EditState{}
}

// Editing returns the state for editing task id.
func Editing(id int64) EditState {
	return EditState{id: id, active: true}
}

// ID returns the task being edited and true, or 0 and false when idle.
func (e EditState) ID() (int64, bool) {
	return e.id, e.active
}

// Is reports whether task id is the one being edited.
func (e EditState) Is(id int64) bool {
	return e.active && e.id == id
}
