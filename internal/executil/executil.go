// Package executil runs external commands for the rest of smsctl.
//
// Commands are always started with a discrete argument vector, never through
// a shell. A failed command is reported to the caller as "no output" rather
// than an error: callers such as modem discovery treat absence as a normal
// outcome.
package executil

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner is satisfied by Real in production and *Mock in tests.
type Runner interface {
	// Output runs name with args and returns its trimmed stdout. ok is false
	// when the command could not be started or exited non-zero.
	Output(ctx context.Context, name string, args ...string) (out string, ok bool)
}

// Real executes commands via os/exec.
type Real struct {
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
	Log     zerolog.Logger
}

// NewReal returns a Real runner logging under the executil component.
func NewReal(timeout time.Duration, log zerolog.Logger) *Real {
	return &Real{
		Timeout: timeout,
		Log:     log.With().Str("component", "executil").Logger(),
	}
}

func (r *Real) Output(ctx context.Context, name string, args ...string) (string, bool) {
	if r.Timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.Timeout)
			defer cancel()
		}
	}

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.New("command timed out")
		}
		r.report(name, args, err)
		return "", false
	}
	return strings.TrimSpace(string(out)), true
}

// report logs a failed command. Failures that read like "not found" are
// expected (no modem attached, unknown SMS path) and only go to debug.
func (r *Real) report(name string, args []string, err error) {
	detail := err.Error()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		detail += ": " + strings.TrimSpace(string(exitErr.Stderr))
	}

	ev := r.Log.Warn()
	if IsExpectedAbsence(detail) {
		ev = r.Log.Debug()
	}
	ev.Str("command", Format(name, args)).Str("error", detail).Msg("command failed")
}

// IsExpectedAbsence reports whether a failure message signals that the
// thing asked for simply is not there.
func IsExpectedAbsence(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no such file")
}

// Format renders a command line for logs and test assertions. It is not
// shell-quoted and must never be executed.
func Format(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
