package application

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	ErrExecutableNotFound = errors.New("executable not found")
	ErrConversionFailed   = errors.New("conversion failed")
	ErrExportFailed       = errors.New("export failed")
	ErrNoMeshProduced     = errors.New("no mesh produced")
	ErrUnresolvedSurfaces = errors.New("unresolved surfaces")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ToolError describes a failed run of an external executable
type ToolError struct {
	Kind     error // ErrConversionFailed or ErrExportFailed
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s", e.Kind, strings.Join(append([]string{e.Command}, e.Args...), " "))
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", strings.TrimSpace(e.Stderr))
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ToolError) Is(target error) bool {
	return target == e.Kind
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// MissingExecutableError reports a configured executable that cannot be found
type MissingExecutableError struct {
	Path string
}

func (e *MissingExecutableError) Error() string {
	return fmt.Sprintf("executable not found at '%s'", e.Path)
}

func (e *MissingExecutableError) Is(target error) bool {
	return target == ErrExecutableNotFound
}

// UnresolvedSurfacesError lists surfaces with no mapping entry in strict mode
type UnresolvedSurfacesError struct {
	Names []string
}

func (e *UnresolvedSurfacesError) Error() string {
	return fmt.Sprintf("no material GUID for: %s", strings.Join(e.Names, ", "))
}

func (e *UnresolvedSurfacesError) Is(target error) bool {
	return target == ErrUnresolvedSurfaces
}
