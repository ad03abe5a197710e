package dataset

import (
	"errors"
	"fmt"
)

// ErrorType classifies why a source sheet could not be read.
type ErrorType string

const (
	ErrorTypeIO     ErrorType = "io"
	ErrorTypeFormat ErrorType = "format"
	ErrorTypeSchema ErrorType = "schema"
	ErrorTypeParse  ErrorType = "parse"
)

// ReadError describes a failure while loading a source sheet.
type ReadError struct {
	Type    ErrorType
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	if e == nil {
		return "unknown read error"
	}
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewIOError wraps a filesystem failure.
func NewIOError(path string, cause error) *ReadError {
	return &ReadError{
		Type:    ErrorTypeIO,
		Path:    path,
		Message: "cannot open source sheet",
		Cause:   cause,
	}
}

// NewFormatError reports an extension no reader handles.
func NewFormatError(path string) *ReadError {
	return &ReadError{
		Type:    ErrorTypeFormat,
		Path:    path,
		Message: "unsupported sheet format",
		Cause:   ErrUnsupportedFormat,
	}
}

// NewSchemaError reports a sheet whose shape cannot be mapped to records.
func NewSchemaError(path, message string) *ReadError {
	return &ReadError{
		Type:    ErrorTypeSchema,
		Path:    path,
		Message: message,
	}
}

// NewEmptyError reports a sheet without even a header row.
func NewEmptyError(path string) *ReadError {
	return &ReadError{
		Type:    ErrorTypeSchema,
		Path:    path,
		Message: ErrEmptyFile.Error(),
		Cause:   ErrEmptyFile,
	}
}

// NewParseError wraps a row-level decoding failure.
func NewParseError(path string, cause error) *ReadError {
	return &ReadError{
		Type:    ErrorTypeParse,
		Path:    path,
		Message: "cannot decode source sheet",
		Cause:   cause,
	}
}

// Sentinel conditions drivers branch on with errors.Is.
var (
	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported sheet format")

	// ErrEmptyFile is returned when a sheet has no header row at all.
	ErrEmptyFile = errors.New("source sheet is empty")

	// ErrMissingColumns is returned when a header lacks required columns.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrNoDataLoaded is returned when reports are requested before a load.
	ErrNoDataLoaded = errors.New("no dataset loaded")
)
