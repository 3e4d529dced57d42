package label

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("label not found")

	// ErrUnsupported is returned when resolving a label in an external
	// workspace.
	ErrUnsupported = errors.New("resolving labels in external workspaces is not supported")
)

// SyntaxError describes a malformed label string.
type SyntaxError struct {
	Value  string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid label %q at offset %d: %s", e.Value, e.Offset, e.Msg)
}

// NotFoundError reports that no file matched a syntactically valid label.
// Tried lists the candidate paths in the order they were checked.
type NotFoundError struct {
	Label Label
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("label %s: unable to resolve label path", e.Label)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
