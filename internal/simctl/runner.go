package simctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Error codes reported by CommandError. They match the codes a Node.js
// child_process would report so existing consumers of the result JSON keep
// working.
const (
	CodeNotFound       = "ENOENT"
	CodeTimeout        = "ETIMEDOUT"
	CodeMaxBuffer      = "ERR_CHILD_PROCESS_STDIO_MAXBUFFER"
	CodeUnknown        = "UNKNOWN_ERROR"
	DefaultMaxBuffer   = 50 * 1024 * 1024
	maxStderrRetention = 64 * 1024
)

// waitDelay bounds how long Run waits for output pipes after the process has
// been killed, in case a grandchild still holds them open.
const waitDelay = 2 * time.Second

// ErrMaxBuffer is returned when a command writes more than the configured
// stdout limit.
var ErrMaxBuffer = errors.New("stdout maxBuffer length exceeded")

// CommandError describes a failed external command.
type CommandError struct {
	// Code is the exit status as a decimal string, or one of the Code*
	// constants when the process did not exit normally.
	Code string

	// Command is the command line that was run.
	Command string

	// Stderr is the captured standard error text, if any.
	Stderr string

	Err error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("Command failed: %s", e.Command)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner runs an external command and returns its standard output.
//
// Implementations must return a *CommandError on failure.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. Standard output is capped at
// MaxBuffer bytes; a command that exceeds it is killed.
type ExecRunner struct {
	MaxBuffer int
}

// NewExecRunner creates an ExecRunner with the given stdout limit. A
// non-positive limit selects DefaultMaxBuffer.
func NewExecRunner(maxBuffer int) *ExecRunner {
	if maxBuffer <= 0 {
		maxBuffer = DefaultMaxBuffer
	}
	return &ExecRunner{MaxBuffer: maxBuffer}
}

// Run executes name with args and returns everything written to stdout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	stdout := &limitedBuffer{limit: r.MaxBuffer, onOverflow: cancel}
	stderr := &limitedBuffer{limit: maxStderrRetention, truncate: true}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil && !stdout.overflowed {
		return stdout.Bytes(), nil
	}

	cerr := &CommandError{
		Command: commandLine(name, args),
		Stderr:  stderr.String(),
		Err:     err,
	}

	var exitErr *exec.ExitError
	switch {
	case stdout.overflowed:
		cerr.Code = CodeMaxBuffer
		cerr.Err = ErrMaxBuffer
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		cerr.Code = CodeTimeout
	case errors.Is(err, exec.ErrNotFound):
		cerr.Code = CodeNotFound
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		cerr.Code = strconv.Itoa(exitErr.ExitCode())
	default:
		cerr.Code = CodeUnknown
	}
	return nil, cerr
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// limitedBuffer collects writes up to limit bytes. Past the limit it either
// drops the excess (truncate) or marks itself overflowed, calls onOverflow
// and fails the write so the child sees a broken pipe.
//
// buf is not embedded: io.Copy would pick up bytes.Buffer.ReadFrom and skip
// Write.
type limitedBuffer struct {
	buf        bytes.Buffer
	limit      int
	truncate   bool
	overflowed bool
	onOverflow func()
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.overflowed {
		return 0, ErrMaxBuffer
	}
	room := b.limit - b.buf.Len()
	if len(p) <= room {
		return b.buf.Write(p)
	}
	if b.truncate {
		if room > 0 {
			b.buf.Write(p[:room])
		}
		return len(p), nil
	}
	b.overflowed = true
	if b.onOverflow != nil {
		b.onOverflow()
	}
	return 0, ErrMaxBuffer
}

func (b *limitedBuffer) Bytes() []byte  { return b.buf.Bytes() }
func (b *limitedBuffer) String() string { return b.buf.String() }
func (b *limitedBuffer) Len() int       { return b.buf.Len() }
