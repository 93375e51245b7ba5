package probe

import "fmt"

// ExecutionError means ffprobe could not be run or exited non-zero.
// Stderr carries the tool's own diagnostic text, which is safe to
// surface to callers.
type ExecutionError struct {
	Err    error
	Stderr string
}

func (e *ExecutionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffprobe failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffprobe failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// OutputError means ffprobe ran but its output was not valid JSON.
// Treated as an internal fault, not a property of the input file.
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("failed to parse ffprobe output: %v", e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}
