package cli_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_ListWithFakeService(t *testing.T) {
	t.Setenv("TODO_API_TIMEOUT", "5s")
	svc := testutil.NewFakeService()
	svc.AddTask(1, "milk", false)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", t.TempDir()}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "   1  [ ] milk\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
	if svc.Calls("ListTasks") != 1 {
		t.Errorf("expected one list call, got %d", svc.Calls("ListTasks"))
	}
}

func TestDispatcher_BaseURLFlag(t *testing.T) {
	t.Setenv("TODO_API_TIMEOUT", "5s")
	var seen string
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		seen = cfg.BaseURL
		return testutil.NewFakeService(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(),
		[]string{"list", "--quiet", "--config", t.TempDir(), "--base-url", "http://tasks.example:9000/"},
		&stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if seen != "http://tasks.example:9000" {
		t.Errorf("expected flag to override base url, got %q", seen)
	}
}

func TestDispatcher_InvalidBaseURL(t *testing.T) {
	t.Setenv("TODO_API_TIMEOUT", "5s")
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(),
		[]string{"list", "--config", t.TempDir(), "--base-url", "ftp://tasks.example"},
		&stdout, &stderr)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if svc.TotalCalls() != 0 {
		t.Error("expected no backend calls")
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	t.Setenv("TODO_API_TIMEOUT", "5s")
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("dial failed")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", t.TempDir()}, &stdout, &stderr)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: dial failed\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_AliasDispatch(t *testing.T) {
	t.Setenv("TODO_API_TIMEOUT", "5s")
	svc := testutil.NewFakeService()
	svc.AddTask(1, "milk", false)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"toggle", "--config", t.TempDir(), "1"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if !svc.Tasks()[0].Completed {
		t.Error("expected task 1 toggled")
	}
}

func TestDispatcher_FlagErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"list", "--config"}, "error: flag needs an argument: -config\n"},
		{[]string{"list", "--quiet=maybe"}, "error: invalid boolean value \"maybe\" for -quiet: parse error\n"},
		{[]string{"list", "--verbose"}, "error: unknown flag: -verbose\n"},
	}
	for _, tt := range tests {
		svc := testutil.NewFakeService()
		dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

		var stdout, stderr bytes.Buffer
		code := dispatcher.Run(context.Background(), tt.args, &stdout, &stderr)

		if code != exitcode.UserError {
			t.Errorf("%v: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr.String() != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.want, stderr.String())
		}
		if svc.TotalCalls() != 0 {
			t.Errorf("%v: expected no backend calls", tt.args)
		}
	}
}
