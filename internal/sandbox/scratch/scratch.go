// Package scratch allocates per-submission temporary files and directories
// and tracks their release obligations.
package scratch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	appErr "runbox/pkg/errors"
)

// Stack collects release obligations for one submission. Every allocation
// pushes a release closure; Release runs them in reverse order on every exit
// path of the request.
type Stack struct {
	releases []func()
}

// NewStack returns an empty cleanup stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push adds a release closure to the stack.
func (s *Stack) Push(release func()) {
	s.releases = append(s.releases, release)
}

// Release runs all pending closures, last in first out. It is idempotent.
func (s *Stack) Release() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
}

// Manager produces uniquely named scratch resources in a root directory.
type Manager struct {
	root string
}

// NewManager creates a manager rooted at dir, or the OS temp area when dir
// is empty.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Manager{root: dir}
}

// TempFile creates a uniquely named file with the given suffix and registers
// its removal on the stack. The suffix is required so toolchains that key on
// the extension accept the file.
func (m *Manager) TempFile(stack *Stack, suffix string) (string, error) {
	if !strings.HasPrefix(suffix, ".") {
		return "", appErr.Newf(appErr.ScratchFailed, "scratch suffix must start with a dot, got %q", suffix)
	}
	path := filepath.Join(m.root, "runbox-"+uuid.NewString()+suffix)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", appErr.Wrapf(err, appErr.ScratchFailed, "create scratch file failed")
	}
	if err := f.Close(); err != nil {
		Remove(path)
		return "", appErr.Wrapf(err, appErr.ScratchFailed, "close scratch file failed")
	}
	stack.Push(func() { Remove(path) })
	return path, nil
}

// TempDir creates a uniquely named directory and registers its recursive
// removal on the stack.
func (m *Manager) TempDir(stack *Stack) (string, error) {
	path := filepath.Join(m.root, "runbox-"+uuid.NewString())
	if err := os.Mkdir(path, 0700); err != nil {
		return "", appErr.Wrapf(err, appErr.ScratchFailed, "create scratch dir failed")
	}
	stack.Push(func() { _ = os.RemoveAll(path) })
	return path, nil
}

// ArtifactPath reserves a unique path for a toolchain-produced artifact.
// The placeholder is removed immediately so the toolchain can create a fresh
// file at that exact path; the removal obligation stays on the stack for
// whatever the toolchain leaves behind.
func (m *Manager) ArtifactPath(stack *Stack) (string, error) {
	path := filepath.Join(m.root, "runbox-"+uuid.NewString())
	stack.Push(func() { Remove(path) })
	return path, nil
}

// Remove deletes a path, tolerating one the toolchain already consumed.
func Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		_ = os.RemoveAll(path)
	}
}

// WriteSource materializes submission source at path.
func WriteSource(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return appErr.Wrapf(err, appErr.IoError, "write source failed")
	}
	return nil
}
