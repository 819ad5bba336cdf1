// FILE: lixenwraith/typedconf/errors.go
package typedconf

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound indicates the configuration file does not exist
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrFileTooLarge indicates the file exceeds LoaderOptions.MaxFileSize
	ErrFileTooLarge = errors.New("configuration file too large")

	// ErrPathTraversal indicates a relative path that escapes the working directory
	ErrPathTraversal = errors.New("potential path traversal in config path")

	// ErrSyntax is matched by every *SyntaxError
	ErrSyntax = errors.New("malformed INI syntax")

	// ErrKeyNotFound is returned by typed accessors for unknown keys
	ErrKeyNotFound = errors.New("key not found")

	// ErrKindMismatch is returned when a key holds a different kind than requested
	ErrKindMismatch = errors.New("kind mismatch")
)

// SyntaxError reports a malformed line in an INI source.
type SyntaxError struct {
	Path string // empty when parsed from a reader
	Line int    // 1-based
	Text string // offending line, trimmed
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Msg, e.Text)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Is makes errors.Is(err, ErrSyntax) true for syntax errors.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
