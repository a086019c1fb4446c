package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd prints the resolved configuration.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Print the resolved configuration" }
func (c *ConfigCmd) Usage() string      { return "todo config" }
func (c *ConfigCmd) NeedsBackend() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to marshal config: %v\n", err)
		return exitcode.UserError
	}
	if _, err := out.Write(data); err != nil {
		return exitcode.UserError
	}
	return exitcode.Success
}
