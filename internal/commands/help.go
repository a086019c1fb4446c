package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todo help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                    Open the interactive task list
  todo ui [common flags]                  Open the interactive task list
  todo list [common flags] [--open]       Print tasks
  todo add [common flags] <title...>      Create a task
  todo done [common flags] <id>           Toggle a task's completed flag
  todo rm [common flags] <id>             Delete a task
  todo edit [common flags] <id> <title...>
  todo config [common flags]              Print the resolved configuration
  todo help
  todo version

Common flags:
  --base-url <url>  Backend URL (default $TODO_API_BASE_URL or http://localhost:8080)
  --config <dir>    Override config directory
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr (ui: <config dir>/debug.log)

Interactive keys:
  up/k, down/j   move            space      toggle completed
  e, enter       edit title      d, x       delete
  a, tab         new task        r          reload
  q, ctrl+c      quit
  While editing: enter saves, esc cancels, moving away saves.
`
