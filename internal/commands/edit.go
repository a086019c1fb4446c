package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"rename"} }
func (c *EditCmd) Synopsis() string   { return "Change a task's title" }
func (c *EditCmd) Usage() string      { return "todo edit <id> <title...>" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	title := strings.Join(args[1:], " ")

	s, code := openStore(ctx, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	s.EditStart(id)
	s.Do(ctx, s.EditSave(id, title))
	if code := report(s, errOut); code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		task, _ := s.Task(id)
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
