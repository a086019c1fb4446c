package store

import (
	"context"
	"slices"

	"todo/internal/service"
)

// Op is a pending backend call produced by an intent.
type Op struct {
	name    string
	run     func(ctx context.Context) error
	settle  func(err error)
	settled bool
}

// Name identifies the intent that produced op ("load", "add", ...).
func (op *Op) Name() string { return op.name }

// Run performs the backend call. It does not touch store state and may run
// on any goroutine.
func (op *Op) Run(ctx context.Context) error {
	return op.run(ctx)
}

// change describes an optimistic write to a single task.
type change struct {
	name    string
	failMsg string
	id      int64

	// mutate applies the write to a copy of the list.
	mutate func([]service.Task) []service.Task
	// revert puts the task back to its last confirmed value.
	revert func(tasks []service.Task, confirmed service.Task) []service.Task
	effect func(ctx context.Context) error
	// confirm records the backend's new state after a successful effect.
	confirm func()
}

// optimistic snapshots the list, applies c.mutate right away and returns an
// op running c.effect.
//
// On failure the snapshot is restored verbatim when nothing has changed since
// and the task had no other write in flight when c started. Otherwise the
// rollback is scoped to c.id: while other writes to the task are still
// pending it is deferred to them, and once none are left the task is reset to
// the value the backend last confirmed. A late rollback therefore never
// overwrites a newer write to the same task or a change to another one.
func (s *Store) optimistic(c change) *Op {
	s.err = nil
	clean := s.pending[c.id] == 0
	snapshot := slices.Clone(s.tasks)
	s.replace(c.mutate(slices.Clone(s.tasks)))
	version := s.version
	s.pending[c.id]++

	return &Op{
		name: c.name,
		run:  c.effect,
		settle: func(err error) {
			left := s.release(c.id)
			if err == nil {
				c.confirm()
				return
			}
			s.fail(c.failMsg, err)
			if left > 0 {
				s.log().Debug("rollback deferred to pending write", "op", c.name, "id", c.id, "pending", left)
				return
			}
			if clean && s.version == version {
				s.replace(snapshot)
				return
			}
			confirmed, ok := s.confirmed[c.id]
			if !ok {
				return
			}
			s.log().Debug("stale rollback, reverting single task", "op", c.name, "id", c.id,
				"op_version", version, "store_version", s.version)
			s.replace(c.revert(slices.Clone(s.tasks), confirmed))
		},
	}
}

// release drops one pending write on id and returns how many remain.
func (s *Store) release(id int64) int {
	s.pending[id]--
	left := s.pending[id]
	if left <= 0 {
		delete(s.pending, id)
	}
	return left
}
