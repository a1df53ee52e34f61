package runner_test

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"runbox/internal/sandbox/engine"
	"runbox/internal/sandbox/profile"
	"runbox/internal/sandbox/runner"
	"runbox/internal/sandbox/scratch"
	"runbox/internal/sandbox/toolchain"
	appErr "runbox/pkg/errors"
)

// newLiveRunner builds a dispatcher against the real toolchain and process
// engine. Tests using it skip when the interpreter or compiler is not on PATH.
func newLiveRunner(t *testing.T, tools ...string) (*runner.DefaultRunner, string) {
	t.Helper()
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not installed", tool)
		}
	}
	root := t.TempDir()
	r := runner.NewRunner(
		profile.NewRegistry(),
		toolchain.PathResolver{},
		engine.NewEngine(),
		scratch.NewManager(root),
	)
	return r, root
}

func liveCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLivePythonHelloWorld(t *testing.T) {
	r, root := newLiveRunner(t, "python3")

	stdout, err := r.Execute(liveCtx(t), runner.Submission{
		Lang:   "python",
		Source: `print("hello world")`,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if stdout != "hello world\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	assertEmpty(t, root)
}

func TestLivePythonReadsStdin(t *testing.T) {
	r, root := newLiveRunner(t, "python3")

	stdout, err := r.Execute(liveCtx(t), runner.Submission{
		Lang:   "python",
		Source: "import sys\nprint(sum(int(x) for x in sys.stdin.read().split()))",
		Stdin:  "1 2 3 4\n",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if stdout != "10\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	assertEmpty(t, root)
}

func TestLivePythonRuntimeError(t *testing.T) {
	r, root := newLiveRunner(t, "python3")

	_, err := r.Execute(liveCtx(t), runner.Submission{
		Lang:   "python",
		Source: "import sys\nsys.exit(2)",
	})
	if !appErr.Is(err, appErr.RuntimeError) {
		t.Fatalf("want RuntimeError, got %v", err)
	}
	if !strings.Contains(err.Error(), "status code: 2") {
		t.Fatalf("message = %q", err.Error())
	}
	assertEmpty(t, root)
}

func TestLiveCCompileAndRun(t *testing.T) {
	r, root := newLiveRunner(t, "zig")

	stdout, err := r.Execute(liveCtx(t), runner.Submission{
		Lang:   "c",
		Source: "#include <stdio.h>\nint main(void){printf(\"hi\\n\");return 0;}",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if stdout != "hi\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	assertEmpty(t, root)
}

func TestLiveCCompileError(t *testing.T) {
	r, root := newLiveRunner(t, "zig")

	_, err := r.Execute(liveCtx(t), runner.Submission{
		Lang:   "c",
		Source: "int main(void){return 0",
	})
	if !appErr.Is(err, appErr.CompilationError) {
		t.Fatalf("want CompilationError, got %v", err)
	}
	assertEmpty(t, root)
}

func TestLiveNixRawEval(t *testing.T) {
	r, root := newLiveRunner(t, "nix")

	stdout, err := r.Execute(liveCtx(t), runner.Submission{
		Lang:   "nix",
		Source: `"Hello, World!"`,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if stdout != "Hello, World!" {
		t.Fatalf("stdout = %q", stdout)
	}
	assertEmpty(t, root)
}

func TestLiveGoRun(t *testing.T) {
	r, root := newLiveRunner(t, "go")

	stdout, err := r.Execute(liveCtx(t), runner.Submission{
		Lang:   "go",
		Source: "package main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(\"hi\") }",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if stdout != "hi\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	assertEmpty(t, root)
}
