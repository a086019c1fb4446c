package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/store"
	"todo/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd opens the interactive task list.
type UICmd struct{}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return nil }
func (c *UICmd) Synopsis() string   { return "Open the interactive task list" }
func (c *UICmd) Usage() string      { return "todo ui" }
func (c *UICmd) NeedsBackend() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// The screen owns the terminal, so logs go to a file or nowhere.
	restore, err := redirectLogs(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	defer restore()

	if err := tui.Run(ctx, store.New(svc, nil), cfg.BaseURL); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// redirectLogs points the default logger at the debug log, or discards logs
// when debug is off. The returned func restores the previous logger.
func redirectLogs(cfg *config.Config) (func(), error) {
	prev := slog.Default()
	if !cfg.Debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() { slog.SetDefault(prev) }, nil
	}

	if err := cfg.EnsureDir(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.DebugLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() {
		slog.SetDefault(prev)
		f.Close()
	}, nil
}
