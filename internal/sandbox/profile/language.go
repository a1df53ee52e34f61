// Package profile defines per-language execution strategies.
package profile

import (
	"strings"
	"sync"

	appErr "runbox/pkg/errors"
)

// Shape describes how a language's compile and run phases relate.
type Shape int

const (
	// ShapeInterpret runs one interpreter invocation with the submission stdin.
	ShapeInterpret Shape = iota
	// ShapeCompileBinary compiles to an artifact executable, then runs it.
	ShapeCompileBinary
	// ShapeCompileDir compiles classes into a directory, then runs from it.
	ShapeCompileDir
	// ShapeSingle compiles and runs in one toolchain invocation.
	ShapeSingle
)

// LanguageSpec defines how to compile and run a language.
//
// Command templates are expanded with {src}, {bin} and {dir} before being
// split shell-style into argv.
type LanguageSpec struct {
	ID            string
	Name          string
	SourceSuffix  string
	SourceName    string // fixed basename inside the work dir, when set
	Preamble      string // prepended to the user source before writing
	CompileCmdTpl string
	RunCmdTpl     string
	Shape         Shape
	WorkDirRun    bool // strategy needs a private working directory
	RawOutput     bool // stdout is taken raw, evaluator-style
	DerivedBinary bool // compiler drops the executable next to the source
	// RunFailCode classifies a non-zero run exit; zero value means RuntimeError.
	RunFailCode appErr.ErrorCode
}

// CompileTool returns the tool name of the compile step, or "" when the
// strategy has none.
func (s LanguageSpec) CompileTool() string {
	return firstField(s.CompileCmdTpl)
}

// RunTool returns the tool name of the run step, or "" when the step executes
// a produced artifact rather than a named tool.
func (s LanguageSpec) RunTool() string {
	tool := firstField(s.RunCmdTpl)
	if strings.HasPrefix(tool, "{") {
		return ""
	}
	return tool
}

// RunFailClass returns the error code for a non-zero run exit.
func (s LanguageSpec) RunFailClass() appErr.ErrorCode {
	if s.RunFailCode != 0 {
		return s.RunFailCode
	}
	return appErr.RuntimeError
}

func firstField(tpl string) string {
	fields := strings.Fields(tpl)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Registry maps language tags to their specs.
type Registry struct {
	mu      sync.RWMutex
	specs   map[string]LanguageSpec
	aliases map[string]string
}

// NewRegistry creates a registry populated with the supported languages.
func NewRegistry() *Registry {
	r := &Registry{
		specs:   make(map[string]LanguageSpec),
		aliases: make(map[string]string),
	}
	r.registerDefaults()
	return r
}

// Register adds or replaces a language spec.
func (r *Registry) Register(spec LanguageSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[spec.ID] = spec
}

// Alias maps an extra tag onto an already registered language.
func (r *Registry) Alias(tag, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[tag] = target
}

// Get returns the spec for a language tag, resolving aliases. An unknown tag
// is rejected here, before any filesystem or process activity.
func (r *Registry) Get(tag string) (LanguageSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[tag]; ok {
		tag = target
	}
	spec, ok := r.specs[tag]
	if !ok {
		return LanguageSpec{}, appErr.UnsupportedLanguage(tag)
	}
	return spec, nil
}

// Supported reports whether a tag is in the supported set.
func (r *Registry) Supported(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.aliases[tag]; ok {
		return true
	}
	_, ok := r.specs[tag]
	return ok
}

// Tags returns every supported tag, aliases included.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.specs)+len(r.aliases))
	for id := range r.specs {
		tags = append(tags, id)
	}
	for alias := range r.aliases {
		tags = append(tags, alias)
	}
	return tags
}

func (r *Registry) registerDefaults() {
	// Interpreters.
	r.Register(LanguageSpec{
		ID: "python", Name: "Python",
		SourceSuffix: ".py",
		RunCmdTpl:    "python3 {src}",
		Shape:        ShapeInterpret,
	})
	r.Register(LanguageSpec{
		ID: "javascript", Name: "JavaScript",
		SourceSuffix: ".js",
		RunCmdTpl:    "bun {src}",
		Shape:        ShapeInterpret,
	})
	r.Register(LanguageSpec{
		ID: "ruby", Name: "Ruby",
		SourceSuffix: ".rb",
		RunCmdTpl:    "ruby {src}",
		Shape:        ShapeInterpret,
	})
	r.Register(LanguageSpec{
		ID: "lua", Name: "Lua",
		SourceSuffix: ".lua",
		RunCmdTpl:    "lua {src}",
		Shape:        ShapeInterpret,
	})
	r.Register(LanguageSpec{
		ID: "julia", Name: "Julia",
		SourceSuffix: ".jl",
		RunCmdTpl:    "julia {src}",
		Shape:        ShapeInterpret,
	})
	r.Register(LanguageSpec{
		ID: "r", Name: "R",
		SourceSuffix: ".R",
		RunCmdTpl:    "Rscript {src}",
		Shape:        ShapeInterpret,
	})
	r.Register(LanguageSpec{
		ID: "perl", Name: "Perl",
		SourceSuffix: ".pl",
		RunCmdTpl:    "perl {src}",
		Shape:        ShapeInterpret,
	})
	// The nix evaluator must yield a string; raw mode suppresses quoting.
	// Evaluation failures are compile-class.
	r.Register(LanguageSpec{
		ID: "nix", Name: "Nix",
		SourceSuffix: ".nix",
		RunCmdTpl:    "nix eval --file {src} --raw",
		Shape:        ShapeInterpret,
		RawOutput:    true,
		RunFailCode:  appErr.CompilationError,
	})

	// Compile to a fresh executable, then run it.
	r.Register(LanguageSpec{
		ID: "c", Name: "C",
		SourceSuffix:  ".c",
		CompileCmdTpl: "zig cc {src} -o {bin}",
		RunCmdTpl:     "{bin}",
		Shape:         ShapeCompileBinary,
	})
	r.Register(LanguageSpec{
		ID: "cpp", Name: "C++",
		SourceSuffix:  ".cpp",
		CompileCmdTpl: "clang++ {src} -o {bin}",
		RunCmdTpl:     "{bin}",
		Shape:         ShapeCompileBinary,
	})
	r.Register(LanguageSpec{
		ID: "rust", Name: "Rust",
		SourceSuffix:  ".rs",
		CompileCmdTpl: "rustc {src} --crate-name temp -o {bin}",
		RunCmdTpl:     "{bin}",
		Shape:         ShapeCompileBinary,
	})
	r.Register(LanguageSpec{
		ID: "crystal", Name: "Crystal",
		SourceSuffix:  ".cr",
		CompileCmdTpl: "crystal build {src} -o {bin}",
		RunCmdTpl:     "{bin}",
		Shape:         ShapeCompileBinary,
	})
	r.Register(LanguageSpec{
		ID: "haskell", Name: "Haskell",
		SourceSuffix:  ".hs",
		CompileCmdTpl: "ghc -o {bin} {src}",
		RunCmdTpl:     "{bin}",
		Shape:         ShapeCompileBinary,
	})
	r.Register(LanguageSpec{
		ID: "dart", Name: "Dart",
		SourceSuffix:  ".dart",
		CompileCmdTpl: "dart compile exe {src} -o {bin}",
		RunCmdTpl:     "{bin}",
		Shape:         ShapeCompileBinary,
	})
	// bfc drops the executable next to the source, named after its stem.
	// Each submission gets a private work dir so concurrent submissions
	// cannot collide on the derived path.
	r.Register(LanguageSpec{
		ID: "brainfuck", Name: "Brainfuck",
		SourceSuffix:  ".bf",
		SourceName:    "program.bf",
		CompileCmdTpl: "bfc {src}",
		RunCmdTpl:     "{bin}",
		Shape:         ShapeCompileBinary,
		WorkDirRun:    true,
		DerivedBinary: true,
	})

	// Compile classes into a directory, then run from the classpath.
	r.Register(LanguageSpec{
		ID: "scala", Name: "Scala",
		SourceSuffix:  ".scala",
		CompileCmdTpl: "scalac {src} -d {dir}",
		RunCmdTpl:     "scala -cp {dir} Main",
		Shape:         ShapeCompileDir,
	})
	r.Register(LanguageSpec{
		ID: "groovy", Name: "Groovy",
		SourceSuffix:  ".groovy",
		CompileCmdTpl: "groovyc {src} --classpath {dir} -d {dir}",
		RunCmdTpl:     "groovy -cp {dir} {src}",
		Shape:         ShapeCompileDir,
	})
	r.Register(LanguageSpec{
		ID: "kotlin", Name: "Kotlin",
		SourceSuffix:  ".kt",
		CompileCmdTpl: "kotlinc {src} -d {dir}",
		RunCmdTpl:     "kotlin -cp {dir} MainKt",
		Shape:         ShapeCompileDir,
	})

	// Single toolchain invocation; compile and runtime failures are not
	// separable at this layer.
	r.Register(LanguageSpec{
		ID: "go", Name: "Go",
		SourceSuffix: ".go",
		SourceName:   "program.go",
		RunCmdTpl:    "go run {src}",
		Shape:        ShapeSingle,
		WorkDirRun:   true,
		RunFailCode:  appErr.CompileOrRunError,
	})
	r.Register(LanguageSpec{
		ID: "d", Name: "D",
		SourceSuffix: ".d",
		Preamble:     "module temp;\n",
		RunCmdTpl:    "dmd -run {src}",
		Shape:        ShapeSingle,
		RunFailCode:  appErr.CompileOrRunError,
	})
	r.Register(LanguageSpec{
		ID: "zig", Name: "Zig",
		SourceSuffix: ".zig",
		RunCmdTpl:    "zig run {src}",
		Shape:        ShapeSingle,
		RunFailCode:  appErr.CompileOrRunError,
	})
	r.Register(LanguageSpec{
		ID: "odin", Name: "Odin",
		SourceSuffix: ".odin",
		RunCmdTpl:    "odin run {src} -file",
		Shape:        ShapeSingle,
		RunFailCode:  appErr.CompileOrRunError,
	})

	r.Alias("typescript", "javascript")
}
