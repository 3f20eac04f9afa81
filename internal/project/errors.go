package project

import (
	"fmt"
	"strings"
)

// ArtifactKind distinguishes the two artifact lists of a configuration.
type ArtifactKind int

const (
	// Binary is a runtime artifact copied next to the consumer (-dll).
	Binary ArtifactKind = iota
	// Library is a link input resolved by the consumer (-lib).
	Library
)

// String returns the label used in diagnostics.
func (k ArtifactKind) String() string {
	switch k {
	case Binary:
		return "DLL"
	case Library:
		return "lib"
	default:
		return fmt.Sprintf("ArtifactKind(%d)", int(k))
	}
}

// ArgumentError reports a token sequence that does not follow the grammar.
// The message names what was expected at the failing position.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

// ArtifactError reports an artifact path that does not name a regular file.
type ArtifactError struct {
	Kind ArtifactKind
	Path string
	// Err is the underlying stat failure, nil when the path exists but is
	// not a regular file.
	Err error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("%s file not found: '%s'", e.Kind, e.Path)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// ValidateName rejects project names that would place <name>.vcxproj
// outside the output directory.
func ValidateName(name string) error {
	if strings.ContainsAny(name, `/\`) {
		return &ArgumentError{Msg: fmt.Sprintf("Project name must not contain path separators: '%s'", name)}
	}
	return nil
}
