// Package store holds the client-side task list and applies user intents to
// it optimistically, rolling back when the backend call fails.
//
// A Store is owned by one goroutine. Intents mutate state immediately and
// return an *Op whose Run performs the network call; Run may execute on any
// goroutine, but the result must be handed back to the owner via Settle.
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"todo/internal/service"
)

// Store is the in-memory snapshot of the task list plus UI flags.
// It is not safe for concurrent use.
type Store struct {
	svc    service.Service
	logger *slog.Logger

	tasks   []service.Task
	loads   int // loads in flight
	err     error
	editing EditState

	// version increases on every change to tasks; ops compare it to detect
	// that a rollback snapshot has gone stale.
	version uint64

	// confirmed is the last state the backend acknowledged for each task,
	// pending the number of writes to each task still in flight.
	confirmed map[int64]service.Task
	pending   map[int64]int
}

// New creates an empty store backed by svc. A nil logger means slog.Default().
func New(svc service.Service, logger *slog.Logger) *Store {
	return &Store{
		svc:       svc,
		logger:    logger,
		tasks:     []service.Task{},
		confirmed: make(map[int64]service.Task),
		pending:   make(map[int64]int),
	}
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []service.Task {
	return slices.Clone(s.tasks)
}

// Task returns the task with the given id.
func (s *Store) Task(id int64) (service.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Loading reports whether a Load is in flight.
func (s *Store) Loading() bool { return s.loads > 0 }

// Err returns the last error, or nil.
func (s *Store) Err() error { return s.err }

// Editing returns the current edit state.
func (s *Store) Editing() EditState { return s.editing }

// Message returns the user-facing error text, or "" when there is no error.
func (s *Store) Message() string {
	var f *Failure
	switch {
	case s.err == nil:
		return ""
	case errors.As(s.err, &f):
		return f.Msg
	default:
		return s.err.Error()
	}
}

// ClearError drops the current error message.
func (s *Store) ClearError() { s.err = nil }

// Do runs op inline and settles it. A nil op is a no-op.
// The returned error is the backend error, if any; the store's own view of
// the outcome is available through Err.
func (s *Store) Do(ctx context.Context, op *Op) error {
	if op == nil {
		return nil
	}
	err := op.Run(ctx)
	s.Settle(op, err)
	return err
}

// Settle applies the result of op.Run. Settling an op twice has no effect.
func (s *Store) Settle(op *Op, err error) {
	if op == nil || op.settled {
		return
	}
	op.settled = true
	op.settle(err)
}

// Load replaces the list with the backend's. Loads may overlap; the REST
// client shares one request between them.
func (s *Store) Load() *Op {
	s.loads++
	s.err = nil

	var fetched []service.Task
	return &Op{
		name: "load",
		run: func(ctx context.Context) error {
			var err error
			fetched, err = s.svc.ListTasks(ctx)
			return err
		},
		settle: func(err error) {
			s.loads--
			if err != nil {
				s.fail(MsgLoadFailed, err)
				return
			}
			tasks := dedupe(fetched, s.log())
			clear(s.confirmed)
			for _, t := range tasks {
				s.confirmed[t.ID] = t
			}
			s.replace(tasks)
		},
	}
}

// Add creates a task. Titles that trim to empty are dropped without a request
// and Add returns nil. The task is appended only once the backend has
// assigned its id.
func (s *Store) Add(title string) *Op {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	s.err = nil

	var created service.Task
	return &Op{
		name: "add",
		run: func(ctx context.Context) error {
			var err error
			created, err = s.svc.CreateTask(ctx, title)
			return err
		},
		settle: func(err error) {
			if err != nil {
				s.fail(MsgAddFailed, err)
				return
			}
			next := slices.Clone(s.tasks)
			if i := indexOf(next, created.ID); i >= 0 {
				next[i] = created
			} else {
				next = append(next, created)
			}
			s.confirmed[created.ID] = created
			s.replace(next)
		},
	}
}

// Toggle flips the completed flag of task id and sends the full task.
func (s *Store) Toggle(id int64) *Op {
	i := s.indexOf(id)
	if i < 0 {
		s.err = &NotFoundError{ID: id}
		return nil
	}
	updated := s.tasks[i]
	updated.Completed = !updated.Completed

	return s.optimistic(change{
		name:    "toggle",
		failMsg: MsgUpdateFailed,
		id:      id,
		mutate: func(tasks []service.Task) []service.Task {
			return update(tasks, id, func(t *service.Task) { t.Completed = updated.Completed })
		},
		revert: restore,
		effect: func(ctx context.Context) error {
			return s.svc.UpdateTask(ctx, id, updated)
		},
		confirm: func() { s.confirmed[id] = updated },
	})
}

// Remove deletes task id from the list and the backend.
func (s *Store) Remove(id int64) *Op {
	i := s.indexOf(id)
	if i < 0 {
		s.err = &NotFoundError{ID: id}
		return nil
	}
	var prev, next *int64
	if i > 0 {
		prevID := s.tasks[i-1].ID
		prev = &prevID
	}
	if i+1 < len(s.tasks) {
		nextID := s.tasks[i+1].ID
		next = &nextID
	}

	return s.optimistic(change{
		name:    "remove",
		failMsg: MsgDeleteFailed,
		id:      id,
		mutate: func(tasks []service.Task) []service.Task {
			return slices.DeleteFunc(tasks, func(t service.Task) bool { return t.ID == id })
		},
		revert: func(tasks []service.Task, confirmed service.Task) []service.Task {
			return reinsert(tasks, confirmed, prev, next, i)
		},
		effect: func(ctx context.Context) error {
			return s.svc.DeleteTask(ctx, id)
		},
		confirm: func() { delete(s.confirmed, id) },
	})
}

// EditStart puts task id in edit mode, abandoning any other edit.
func (s *Store) EditStart(id int64) {
	s.editing = Editing(id)
}

// EditCancel leaves edit mode without touching the list.
func (s *Store) EditCancel() {
	s.editing = NotEditing()
}

// EditSave renames task id. An empty title sets a ValidationError and keeps
// edit mode active; otherwise edit mode ends immediately, whatever the
// backend answers.
func (s *Store) EditSave(id int64, newTitle string) *Op {
	title := strings.TrimSpace(newTitle)
	if title == "" {
		s.err = &ValidationError{Msg: MsgTitleRequired}
		return nil
	}

	i := s.indexOf(id)
	if i < 0 {
		s.editing = NotEditing()
		s.err = &NotFoundError{ID: id}
		return nil
	}
	updated := s.tasks[i]
	updated.Title = title

	op := s.optimistic(change{
		name:    "edit",
		failMsg: MsgEditFailed,
		id:      id,
		mutate: func(tasks []service.Task) []service.Task {
			return update(tasks, id, func(t *service.Task) { t.Title = title })
		},
		revert: restore,
		effect: func(ctx context.Context) error {
			return s.svc.UpdateTask(ctx, id, updated)
		},
		confirm: func() { s.confirmed[id] = updated },
	})
	s.editing = NotEditing()
	return op
}

func (s *Store) fail(msg string, err error) {
	s.err = &Failure{Msg: msg, Err: err}
	s.log().Debug("operation failed", "msg", msg, "err", err)
}

func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func (s *Store) replace(tasks []service.Task) {
	s.tasks = tasks
	s.version++
}

func (s *Store) indexOf(id int64) int {
	return indexOf(s.tasks, id)
}

func indexOf(tasks []service.Task, id int64) int {
	return slices.IndexFunc(tasks, func(t service.Task) bool { return t.ID == id })
}

// update returns tasks with fn applied to task id, if present.
func update(tasks []service.Task, id int64, fn func(*service.Task)) []service.Task {
	if i := indexOf(tasks, id); i >= 0 {
		fn(&tasks[i])
	}
	return tasks
}

// restore resets a listed task to its confirmed value.
func restore(tasks []service.Task, confirmed service.Task) []service.Task {
	return update(tasks, confirmed.ID, func(t *service.Task) { *t = confirmed })
}

// reinsert puts a removed task back between the neighbours it had when it
// was removed: after prev if that task is still listed, else before next,
// else at its old index clamped to the list length.
func reinsert(tasks []service.Task, task service.Task, prev, next *int64, index int) []service.Task {
	if indexOf(tasks, task.ID) >= 0 {
		return tasks
	}
	pos := min(index, len(tasks))
	if j := neighbour(tasks, prev); j >= 0 {
		pos = j + 1
	} else if j := neighbour(tasks, next); j >= 0 {
		pos = j
	}
	return slices.Insert(tasks, pos, task)
}

func neighbour(tasks []service.Task, id *int64) int {
	if id == nil {
		return -1
	}
	return indexOf(tasks, *id)
}

// dedupe keeps the first task for each id.
func dedupe(tasks []service.Task, logger *slog.Logger) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			logger.Warn("backend returned duplicate task id", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
