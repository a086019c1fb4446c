// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

const (
	// Untitled replaces blank titles on display.
	Untitled = "(untitled)"

	checkedBox   = "[x]"
	uncheckedBox = "[ ]"
)

// FormatTask formats a task line for the list command.
// Format: "{ID:>4}  [x] {TITLE}\n" (4-wide right-aligned id, two spaces,
// checkbox, title)
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", task.ID, Checkbox(task.Completed), NormalizeTitle(task.Title))
}

// Checkbox renders the completed flag.
func Checkbox(completed bool) string {
	if completed {
		return checkedBox
	}
	return uncheckedBox
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return Untitled
	}
	return title
}
