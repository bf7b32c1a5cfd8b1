package contract

import (
	"errors"
	"fmt"
)

// Error classes surfaced to the CLI. Callers wrap these with %w and add the
// offending value (path, date, branch, git arguments) to the message.
var (
	// ErrConfig covers invalid user input: bad repository path, malformed date, unknown option.
	ErrConfig = errors.New("configuration error")

	// ErrBranchNotFound is returned when the requested branch does not exist locally.
	// It matches ErrConfig under errors.Is.
	ErrBranchNotFound = fmt.Errorf("%w: branch not found", ErrConfig)

	// ErrBackend covers failures reported by the version-control backend.
	ErrBackend = errors.New("version control error")

	// ErrRender covers Markdown to HTML conversion failures.
	ErrRender = errors.New("render error")

	// ErrPersist covers directory creation, file write and archive failures.
	ErrPersist = errors.New("persistence error")
)
