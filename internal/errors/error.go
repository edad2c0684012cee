package errors

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryDocument Category = "document"
	CategoryElement  Category = "element"
	CategorySyntax   Category = "syntax"
	CategoryIO       Category = "io"
	CategoryCLI      Category = "cli"
	CategoryConfig   Category = "config"
	CategoryPublish  Category = "publish"
)

// contextSize is the number of source lines shown around a location.
const contextSize = 5

// Location represents a position in a source document.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// HtomlError is a structured error with source location, suggestions, and documentation.
type HtomlError struct {
	// Code is a unique error identifier (e.g., "H001").
	Code string

	// Category is the error type (document, element, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Subject names the offending key, element type or command, if any.
	Subject string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source position where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is TOML showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HtomlError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s %q", e.Message, e.Subject)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HtomlError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *HtomlError with the same code.
func (e *HtomlError) Is(target error) bool {
	t, ok := target.(*HtomlError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSource adds a location inside an in-memory source document.
// Lines and columns are 1-based; a non-positive line leaves the error unlocated.
func (e *HtomlError) WithSource(name string, src []byte, line, column int) *HtomlError {
	if line <= 0 {
		return e
	}
	e.Location = &Location{File: name, Line: line, Column: column}
	e.Context = sourceContextLines(src, line, contextSize)
	return e
}

// WithLocationFromError extracts a location from a TOML parser diagnostic of
// the form "(line, column): message".
func (e *HtomlError) WithLocationFromError(name string, src []byte, err error) *HtomlError {
	if err == nil {
		return e
	}
	var line, col int
	if n, _ := fmt.Sscanf(err.Error(), "(%d, %d)", &line, &col); n == 2 {
		return e.WithSource(name, src, line, col)
	}
	return e
}

// WithSubject records the offending key, element type or command.
func (e *HtomlError) WithSubject(s string) *HtomlError {
	e.Subject = s
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HtomlError) WithSuggestion(s string) *HtomlError {
	e.Suggestion = s
	return e
}

// WithExample adds a TOML example to the error.
func (e *HtomlError) WithExample(ex string) *HtomlError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *HtomlError) WithDetail(d string) *HtomlError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *HtomlError) Wrap(err error) *HtomlError {
	e.Wrapped = err
	return e
}

// sourceContextLines returns the lines around targetLine. The first returned
// line is targetLine-size/2 (or line 1).
func sourceContextLines(src []byte, targetLine, size int) []string {
	if len(src) == 0 {
		return nil
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(src))
	lineNum := 0
	startLine := targetLine - size/2
	endLine := targetLine + size/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates an HtomlError from a registered error code.
func New(code string) *HtomlError {
	template, ok := GetTemplate(code)
	if !ok {
		return &HtomlError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HtomlError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new HtomlError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HtomlError {
	return &HtomlError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an HtomlError.
func FromError(err error, code string) *HtomlError {
	if err == nil {
		return nil
	}
	var he *HtomlError
	if stderrors.As(err, &he) {
		return he
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err, or any error it wraps, is an HtomlError with
// the given code.
func HasCode(err error, code string) bool {
	return stderrors.Is(err, &HtomlError{Code: code})
}

// CodeOf returns the code of the first HtomlError in err's chain, or "".
func CodeOf(err error) string {
	var he *HtomlError
	if stderrors.As(err, &he) {
		return he.Code
	}
	return ""
}
