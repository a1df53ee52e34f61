// Package result defines raw process execution results.
package result

// ProcessResult captures one child process after it has exited.
type ProcessResult struct {
	ExitCode int // -1 when the child was terminated by a signal
	Signaled bool
	Stdout   []byte
	Stderr   []byte
}

// Ok reports whether the child exited normally with status zero.
func (r ProcessResult) Ok() bool {
	return !r.Signaled && r.ExitCode == 0
}
