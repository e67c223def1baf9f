package manifest

import (
	"errors"
	"fmt"
)

var ErrAssembly = errors.New("manifest assembly failed")

// AssemblyError reports an inconsistency found while composing a manifest.
// Section is zero when the failure is not tied to one section.
type AssemblyError struct {
	Book    int
	Section int
	Err     error
}

func (e *AssemblyError) Error() string {
	if e.Section > 0 {
		return fmt.Sprintf("assemble manifest for book %d: section %d: %v", e.Book, e.Section, e.Err)
	}
	return fmt.Sprintf("assemble manifest for book %d: %v", e.Book, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

func (e *AssemblyError) Is(target error) bool { return target == ErrAssembly }

func (e *AssemblyError) ErrorKind() string { return "internal" }
