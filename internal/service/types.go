// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"fmt"
	"net/http"
)

// Task represents a single task item.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TransportError reports a failed backend call: either the request never
// got a response, or the response status was not 2xx.
type TransportError struct {
	Op     string // "list", "create", "update", "delete"
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
