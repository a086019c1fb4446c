package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/store"
)

// openStore creates a store and loads the task list into it.
// On failure the error is printed and a non-zero exit code returned.
func openStore(ctx context.Context, svc service.Service, errOut io.Writer) (*store.Store, int) {
	s := store.New(svc, nil)
	s.Do(ctx, s.Load())
	if code := report(s, errOut); code != exitcode.Success {
		return nil, code
	}
	return s, exitcode.Success
}

// report prints the store's current error, if any, and returns the matching
// exit code.
func report(s *store.Store, errOut io.Writer) int {
	err := s.Err()
	if err == nil {
		return exitcode.Success
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	var (
		validation *store.ValidationError
		notFound   *store.NotFoundError
	)
	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &validation), errors.As(err, &notFound):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}
