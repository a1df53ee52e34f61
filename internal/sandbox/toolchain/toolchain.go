// Package toolchain locates host toolchain executables.
package toolchain

import (
	"os/exec"

	appErr "runbox/pkg/errors"
)

// Resolver locates an executable by name on the host search path.
type Resolver interface {
	Resolve(name string) (string, error)
}

// PathResolver resolves tools against the process's PATH.
type PathResolver struct{}

// Resolve returns the absolute path of the named tool.
// A missing tool is a distinct error class, never a compile failure.
func (PathResolver) Resolve(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", appErr.Wrapf(err, appErr.ToolMissing, "Failed to find the binary: %s", name).
			WithDetail("tool", name)
	}
	return path, nil
}
