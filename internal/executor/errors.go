package executor

import (
	"fmt"
	"strings"
	"time"
)

// FileError represents an error that occurred while linting one file.
// It includes context about which file failed and when.
type FileError struct {
	Path      string    // File that was being linted
	Message   string    // Human-readable error message
	Err       error     // Underlying error (optional)
	Timestamp time.Time // When the error occurred
}

// NewFileError creates a new FileError with the current timestamp.
func NewFileError(path, msg string, err error) *FileError {
	return &FileError{
		Path:      path,
		Message:   msg,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface for FileError.
func (e *FileError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("file %s: %s", e.Path, e.Message))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileError) Unwrap() error {
	return e.Err
}
