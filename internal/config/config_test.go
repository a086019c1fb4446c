package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	unsetenv(t, "TODO_API_BASE_URL")
	unsetenv(t, "TODO_API_TIMEOUT")
	chdir(t, t.TempDir())

	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected %q, got %q", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.Timeout)
	}
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("TODO_API_BASE_URL", "https://todo.example.com/")
	t.Setenv("TODO_API_TIMEOUT", "3s")
	chdir(t, t.TempDir())

	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://todo.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.Timeout)
	}
}

func TestNew_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte("TODO_API_BASE_URL=http://from-dotenv:9000\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODO_API_BASE_URL", "http://from-env:7000")
	unsetenv(t, "TODO_API_TIMEOUT")

	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://from-env:7000" {
		t.Errorf("expected process env to win, got %q", cfg.BaseURL)
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Setenv("TODO_API_BASE_URL", "ftp://example.com")
	unsetenv(t, "TODO_API_TIMEOUT")
	chdir(t, t.TempDir())

	if _, err := New(t.TempDir()); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestSetBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "http://localhost:8080", false},
		{"  http://localhost:8080//  ", "http://localhost:8080", false},
		{"", DefaultBaseURL, false},
		{"localhost:8080", "", true},
		{"http://", "", true},
	}
	for _, tt := range tests {
		var c Config
		err := c.SetBaseURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SetBaseURL(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("SetBaseURL(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if c.BaseURL != tt.want {
			t.Errorf("SetBaseURL(%q) = %q, want %q", tt.in, c.BaseURL, tt.want)
		}
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestNew_EmptyBaseURLFallsBackToDefault(t *testing.T) {
	t.Setenv("TODO_API_BASE_URL", "  ")
	unsetenv(t, "TODO_API_TIMEOUT")
	chdir(t, t.TempDir())

	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected %q, got %q", DefaultBaseURL, cfg.BaseURL)
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
