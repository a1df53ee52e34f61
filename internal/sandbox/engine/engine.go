// Package engine spawns child processes with piped standard streams.
package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"

	"runbox/internal/sandbox/result"
	appErr "runbox/pkg/errors"
)

// Spec describes one child process invocation.
type Spec struct {
	Argv  []string // Argv[0] must be an absolute path to the executable
	Dir   string   // working directory; empty means inherit
	Stdin []byte   // written once, then the pipe is closed
}

// Engine runs one child process to completion.
type Engine interface {
	Run(ctx context.Context, spec Spec) (result.ProcessResult, error)
}

// ProcessEngine runs children directly on the host.
type ProcessEngine struct{}

// NewEngine creates a host process engine.
func NewEngine() ProcessEngine {
	return ProcessEngine{}
}

// Run spawns the child, feeds spec.Stdin into its input, drains stdout and
// stderr concurrently with the input write, and waits for it to exit. The
// returned error covers only spawn and plumbing failures; a non-zero exit or
// a signal death is reported through the ProcessResult.
func (ProcessEngine) Run(ctx context.Context, spec Spec) (result.ProcessResult, error) {
	if len(spec.Argv) == 0 {
		return result.ProcessResult{}, appErr.New(appErr.InvalidParams).WithMessage("empty command")
	}

	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return result.ProcessResult{}, appErr.Wrapf(err, appErr.IoError, "open stdin pipe failed")
	}

	if err := cmd.Start(); err != nil {
		return result.ProcessResult{}, appErr.Wrapf(err, appErr.IoError, "start process failed")
	}

	// The write runs concurrently with the output drains so a child that
	// fills its stdout pipe before consuming all input cannot deadlock.
	// A child that exits without reading closes the pipe under us; that is
	// the child's business, not a server failure.
	written := make(chan struct{})
	go func() {
		defer close(written)
		if len(spec.Stdin) > 0 {
			_, _ = stdin.Write(spec.Stdin)
		}
		_ = stdin.Close()
	}()

	waitErr := cmd.Wait()
	<-written

	res := result.ProcessResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if waitErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			res.ExitCode = -1
			res.Signaled = true
			return res, nil
		}
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, appErr.Wrapf(waitErr, appErr.IoError, "wait for process failed")
}
