package engine_test

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"runbox/internal/sandbox/engine"
	appErr "runbox/pkg/errors"
)

func shPath(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available on host")
	}
	return path
}

func TestRunCapturesStdout(t *testing.T) {
	eng := engine.NewEngine()
	res, err := eng.Run(context.Background(), engine.Spec{
		Argv: []string{shPath(t), "-c", "printf 'hello world\\n'"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("exit = %d signaled = %v", res.ExitCode, res.Signaled)
	}
	if string(res.Stdout) != "hello world\n" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}

func TestRunDeliversStdinOnceWithEOF(t *testing.T) {
	eng := engine.NewEngine()
	res, err := eng.Run(context.Background(), engine.Spec{
		Argv:  []string{shPath(t), "-c", "cat"},
		Stdin: []byte("7 3\n"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(res.Stdout) != "7 3\n" {
		t.Fatalf("stdout = %q, want the stdin echoed back once", res.Stdout)
	}
}

func TestRunEmptyStdinYieldsImmediateEOF(t *testing.T) {
	eng := engine.NewEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// cat would block forever if the input pipe were left open.
	res, err := eng.Run(ctx, engine.Spec{
		Argv: []string{shPath(t), "-c", "cat"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Ok() || len(res.Stdout) != 0 {
		t.Fatalf("exit = %d stdout = %q", res.ExitCode, res.Stdout)
	}
}

func TestRunLargeOutputDoesNotDeadlock(t *testing.T) {
	eng := engine.NewEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The child floods stdout well past the pipe buffer before reading any
	// input; a sequential write-then-read runner deadlocks here.
	stdin := bytes.Repeat([]byte("x"), 256*1024)
	res, err := eng.Run(ctx, engine.Spec{
		Argv:  []string{shPath(t), "-c", "head -c 262144 /dev/zero; cat >/dev/null"},
		Stdin: stdin,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("exit = %d signaled = %v stderr = %q", res.ExitCode, res.Signaled, res.Stderr)
	}
	if len(res.Stdout) != 262144 {
		t.Fatalf("stdout length = %d, want 262144", len(res.Stdout))
	}
}

func TestRunChildExitsWithoutReadingStdin(t *testing.T) {
	eng := engine.NewEngine()
	res, err := eng.Run(context.Background(), engine.Spec{
		Argv:  []string{shPath(t), "-c", "exit 0"},
		Stdin: bytes.Repeat([]byte("y"), 512*1024),
	})
	if err != nil {
		t.Fatalf("a child ignoring its stdin is not a server failure: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("exit = %d", res.ExitCode)
	}
}

func TestRunNonZeroExitCarriesStderr(t *testing.T) {
	eng := engine.NewEngine()
	res, err := eng.Run(context.Background(), engine.Spec{
		Argv: []string{shPath(t), "-c", "echo oops >&2; exit 3"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 || res.Signaled {
		t.Fatalf("exit = %d signaled = %v", res.ExitCode, res.Signaled)
	}
	if !strings.Contains(string(res.Stderr), "oops") {
		t.Fatalf("stderr = %q", res.Stderr)
	}
}

func TestRunSignalDeathIsDistinct(t *testing.T) {
	eng := engine.NewEngine()
	res, err := eng.Run(context.Background(), engine.Spec{
		Argv: []string{shPath(t), "-c", "kill -9 $$"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Signaled {
		t.Fatalf("want signaled, got exit = %d", res.ExitCode)
	}
	if res.ExitCode != -1 {
		t.Fatalf("signaled exit code = %d, want -1", res.ExitCode)
	}
}

func TestRunContextCancellationKillsChild(t *testing.T) {
	eng := engine.NewEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := eng.Run(ctx, engine.Spec{
		Argv: []string{shPath(t), "-c", "sleep 30"},
	})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("child outlived cancellation by %v", elapsed)
	}
	if err == nil && !res.Signaled {
		t.Fatalf("cancelled child should be reported killed, exit = %d", res.ExitCode)
	}
}

func TestRunHonorsWorkingDirectory(t *testing.T) {
	eng := engine.NewEngine()
	dir := t.TempDir()
	res, err := eng.Run(context.Background(), engine.Spec{
		Argv: []string{shPath(t), "-c", "pwd"},
		Dir:  dir,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Symlinked temp roots make pwd a suffix match, not an equality.
	pwd := strings.TrimSpace(string(res.Stdout))
	if !strings.HasSuffix(pwd, filepath.Base(dir)) {
		t.Fatalf("pwd = %q, want it to reflect %q", pwd, dir)
	}
}

func TestRunEmptyArgvRejected(t *testing.T) {
	eng := engine.NewEngine()
	_, err := eng.Run(context.Background(), engine.Spec{})
	if !appErr.Is(err, appErr.InvalidParams) {
		t.Fatalf("want InvalidParams, got %v", err)
	}
}
