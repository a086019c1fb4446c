package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles the completed flag, so
// running it on a completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle a task's completed flag" }
func (c *DoneCmd) Usage() string      { return "todo done <id>" }
func (c *DoneCmd) NeedsBackend() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	s, code := openStore(ctx, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	s.Do(ctx, s.Toggle(id))
	if code := report(s, errOut); code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		task, _ := s.Task(id)
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
