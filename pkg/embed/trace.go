package embed

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/dyon-lang/dyon/internal/runtime"
)

// FormatError renders a runtime error for a terminal: stdout's own fd
// decides whether to wrap it in ANSI red, mirroring
// funvibe-funxy/internal/evaluator/builtins_term.go's isatty.IsTerminal
// guard around color output (color is wasted, and sometimes actively
// wrong, once stdout is redirected to a file or pipe). A runtime error
// already carries its stack trace baked into Error() (spec §6
// "<stack trace>\n<message>", written at the point of failure before
// the frame that raised it unwinds); a typesystem.TypeError has no trace
// to prepend since it is raised before any Runtime exists.
func FormatError(err error) string {
	return colorize(err.Error())
}

func colorize(s string) string {
	if !isTerminalStdout() {
		return s
	}
	const red = "\x1b[31m"
	const reset = "\x1b[0m"
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = red + l + reset
		}
	}
	return strings.Join(lines, "\n")
}

func isTerminalStdout() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// FormatResult renders a successful run's return value for a terminal
// (void prints nothing, matching the original's own "a void result
// isn't printed" convention).
func FormatResult(v runtime.Value) string {
	if v == nil {
		return ""
	}
	if _, ok := v.(runtime.Void); ok {
		return ""
	}
	return runtime.Inspect(v)
}
