// Package runner dispatches submissions onto per-language strategies.
package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/shlex"

	"runbox/internal/sandbox/engine"
	"runbox/internal/sandbox/observer"
	"runbox/internal/sandbox/profile"
	"runbox/internal/sandbox/result"
	"runbox/internal/sandbox/scratch"
	"runbox/internal/sandbox/toolchain"
	appErr "runbox/pkg/errors"
)

// Submission is one (language, source, stdin) tuple.
type Submission struct {
	Lang   string
	Source string
	Stdin  string
}

// Dispatcher executes one submission and returns its captured stdout.
type Dispatcher interface {
	Execute(ctx context.Context, sub Submission) (string, error)
}

// DefaultRunner drives scratch allocation, tool resolution and the compile
// and run steps for every supported language.
type DefaultRunner struct {
	registry *profile.Registry
	tools    toolchain.Resolver
	eng      engine.Engine
	scratch  *scratch.Manager
	metrics  observer.MetricsRecorder
}

// NewRunner creates a runner over the given collaborators.
func NewRunner(registry *profile.Registry, tools toolchain.Resolver, eng engine.Engine, scratchMgr *scratch.Manager) *DefaultRunner {
	return NewRunnerWithObserver(registry, tools, eng, scratchMgr, observer.NoopMetricsRecorder{})
}

// NewRunnerWithObserver creates a runner with metrics hooks.
func NewRunnerWithObserver(registry *profile.Registry, tools toolchain.Resolver, eng engine.Engine, scratchMgr *scratch.Manager, metrics observer.MetricsRecorder) *DefaultRunner {
	if metrics == nil {
		metrics = observer.NoopMetricsRecorder{}
	}
	return &DefaultRunner{
		registry: registry,
		tools:    tools,
		eng:      eng,
		scratch:  scratchMgr,
		metrics:  metrics,
	}
}

// workspace holds the scratch paths of one submission.
type workspace struct {
	srcPath string
	workDir string // private working directory, when the strategy needs one
	binPath string // artifact path for compile-to-binary strategies
	outDir  string // class output directory for compile-to-dir strategies
}

// Execute runs one submission. All scratch resources acquired along the way
// are released before it returns, whatever the outcome.
func (r *DefaultRunner) Execute(ctx context.Context, sub Submission) (string, error) {
	spec, err := r.registry.Get(sub.Lang)
	if err != nil {
		return "", err
	}

	stack := scratch.NewStack()
	defer stack.Release()

	tools, err := r.resolveTools(spec)
	if err != nil {
		return "", err
	}

	ws, err := r.materialize(spec, sub.Source, stack)
	if err != nil {
		return "", err
	}

	if spec.CompileCmdTpl != "" {
		if err := r.compile(ctx, spec, ws, tools); err != nil {
			return "", err
		}
	}

	return r.run(ctx, spec, ws, tools, sub.Stdin)
}

// resolveTools locates every named tool of the strategy up front, so absence
// surfaces before any scratch or process activity.
func (r *DefaultRunner) resolveTools(spec profile.LanguageSpec) (map[string]string, error) {
	tools := make(map[string]string)
	for _, name := range []string{spec.CompileTool(), spec.RunTool()} {
		if name == "" {
			continue
		}
		if _, ok := tools[name]; ok {
			continue
		}
		path, err := r.tools.Resolve(name)
		if err != nil {
			return nil, err
		}
		tools[name] = path
	}
	return tools, nil
}

// materialize writes the submission source into scratch space and reserves
// whatever the strategy's compile step will produce.
func (r *DefaultRunner) materialize(spec profile.LanguageSpec, source string, stack *scratch.Stack) (workspace, error) {
	var ws workspace
	var err error

	if spec.WorkDirRun {
		ws.workDir, err = r.scratch.TempDir(stack)
		if err != nil {
			return ws, err
		}
		ws.srcPath = filepath.Join(ws.workDir, spec.SourceName)
	} else {
		ws.srcPath, err = r.scratch.TempFile(stack, spec.SourceSuffix)
		if err != nil {
			return ws, err
		}
	}

	if err := scratch.WriteSource(ws.srcPath, spec.Preamble+source); err != nil {
		return ws, err
	}

	switch spec.Shape {
	case profile.ShapeCompileBinary:
		if spec.DerivedBinary {
			// The compiler names the executable after the source stem and
			// drops it in the working directory.
			stem := strings.TrimSuffix(filepath.Base(ws.srcPath), spec.SourceSuffix)
			ws.binPath = filepath.Join(ws.workDir, stem)
			binPath := ws.binPath
			stack.Push(func() { scratch.Remove(binPath) })
		} else {
			ws.binPath, err = r.scratch.ArtifactPath(stack)
			if err != nil {
				return ws, err
			}
		}
	case profile.ShapeCompileDir:
		ws.outDir, err = r.scratch.TempDir(stack)
		if err != nil {
			return ws, err
		}
	}

	return ws, nil
}

// compile runs the strategy's compile step with empty stdin.
func (r *DefaultRunner) compile(ctx context.Context, spec profile.LanguageSpec, ws workspace, tools map[string]string) error {
	argv, err := buildCommand(spec.CompileCmdTpl, ws, tools)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := r.eng.Run(ctx, engine.Spec{Argv: argv, Dir: ws.workDir})
	durMs := time.Since(start).Milliseconds()
	r.metrics.ObserveCompile(ctx, spec.ID, err == nil && res.Ok(), durMs)
	if err != nil {
		return err
	}

	if res.Signaled {
		return appErr.Newf(appErr.SignalError, "%s compilation terminated by signal\nError: %s", spec.Name, res.Stderr)
	}
	if res.ExitCode != 0 {
		if spec.DerivedBinary {
			// bfc reports diagnostics on both streams.
			return appErr.Newf(appErr.CompilationError, "%s compilation failed:\nSTDOUT: %s\nSTDERR: %s", spec.Name, res.Stdout, res.Stderr)
		}
		return appErr.Newf(appErr.CompilationError, "%s compilation failed:\n%s", spec.Name, res.Stderr)
	}
	return nil
}

// run executes the strategy's run step with the submission stdin and maps the
// process result into an outcome.
func (r *DefaultRunner) run(ctx context.Context, spec profile.LanguageSpec, ws workspace, tools map[string]string, stdin string) (string, error) {
	argv, err := buildCommand(spec.RunCmdTpl, ws, tools)
	if err != nil {
		return "", err
	}

	start := time.Now()
	res, err := r.eng.Run(ctx, engine.Spec{Argv: argv, Dir: ws.workDir, Stdin: []byte(stdin)})
	durMs := time.Since(start).Milliseconds()
	r.metrics.ObserveRun(ctx, spec.ID, runClass(res, err), durMs)
	if err != nil {
		return "", err
	}

	if res.Signaled {
		return "", appErr.Newf(appErr.SignalError, "%s %s terminated by signal\nError: %s", spec.Name, failureNoun(spec), res.Stderr)
	}
	if res.ExitCode != 0 {
		// stdout of a failing run is discarded; only stderr travels.
		return "", appErr.Newf(spec.RunFailClass(), "%s %s failed with status code: %d\nError: %s", spec.Name, failureNoun(spec), res.ExitCode, res.Stderr)
	}

	if !utf8.Valid(res.Stdout) {
		return "", appErr.Newf(appErr.DecodeError, "%s program produced output that is not valid UTF-8", spec.Name)
	}
	return string(res.Stdout), nil
}

// buildCommand expands the template placeholders and splits the result
// shell-style into argv, swapping the tool name for its resolved path.
func buildCommand(tpl string, ws workspace, tools map[string]string) ([]string, error) {
	if strings.TrimSpace(tpl) == "" {
		return nil, appErr.New(appErr.InvalidParams).WithMessage("command template is required")
	}
	expanded := tpl
	expanded = strings.ReplaceAll(expanded, "{src}", ws.srcPath)
	expanded = strings.ReplaceAll(expanded, "{bin}", ws.binPath)
	expanded = strings.ReplaceAll(expanded, "{dir}", ws.outDir)

	fields, err := shlex.Split(expanded)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.InvalidParams, "parse command template failed")
	}
	if len(fields) == 0 {
		return nil, appErr.New(appErr.InvalidParams).WithMessage("command is empty after expansion")
	}
	if path, ok := tools[fields[0]]; ok {
		fields[0] = path
	}
	return fields, nil
}

func failureNoun(spec profile.LanguageSpec) string {
	if spec.RawOutput {
		return "evaluation"
	}
	return "program execution"
}

func runClass(res result.ProcessResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case res.Signaled:
		return "signal"
	case res.ExitCode != 0:
		return fmt.Sprintf("exit_%d", res.ExitCode)
	default:
		return "ok"
	}
}
