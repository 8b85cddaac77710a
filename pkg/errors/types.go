// Package errors defines the typed error kinds raised by the update
// planning and fetch pipeline, plus the exit-code convention used to
// translate them into a process exit status at the cmd/ layer.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/ajxudir/esky/pkg/version"
)

// Exit codes for scripting integration.
const (
	// ExitSuccess indicates the requested operation completed fully.
	ExitSuccess = 0

	// ExitPartialFailure indicates some, but not all, requested versions
	// or files could be fetched/prepared.
	ExitPartialFailure = 1

	// ExitFailure indicates the operation failed outright (no path found,
	// download exhausted its attempt budget, preparation failed).
	ExitFailure = 2

	// ExitConfigError indicates invalid configuration or arguments
	// prevented the command from running at all.
	ExitConfigError = 3
)

// ExitError represents a command termination with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError with the given code and underlying error.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// NewExitErrorf creates an ExitError with the given code and formatted message.
func NewExitErrorf(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GetExitCode extracts the exit code from an error: ExitSuccess for nil,
// the code carried by an ExitError, or ExitFailure otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsExitError checks if err is an ExitError and returns it.
func IsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}

// InvalidVersionError is re-exported from pkg/version so callers that
// only import pkg/errors can still type-switch on it alongside the other
// pipeline error kinds.
type InvalidVersionError = version.InvalidVersionError

// ParseError reports a malformed line encountered while parsing a
// version summary. The parser collects these and continues rather than
// aborting the whole summary load.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("summary line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a ParseError for the given line number and raw text.
func NewParseError(line int, text string, err error) *ParseError {
	return &ParseError{Line: line, Text: text, Err: err}
}

// TransportError wraps a failure to retrieve a summary or artifact over
// the network. Temporary reports whether the underlying transport
// considers the failure retryable, when it exposes that distinction.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Temporary reports whether the wrapped error is retryable, when the
// underlying error exposes a Temporary() bool method.
func (e *TransportError) Temporary() bool {
	type temporary interface{ Temporary() bool }
	var t temporary
	if stderrors.As(e.Err, &t) {
		return t.Temporary()
	}
	return false
}

// NewTransportError creates a TransportError for the given URL.
func NewTransportError(url string, err error) *TransportError {
	return &TransportError{URL: url, Err: err}
}

// DownloadError reports that fetching a known file's bytes failed after
// exhausting its attempt budget, or that the downloaded bytes failed
// integrity verification.
type DownloadError struct {
	Filename string
	URL      string
	Attempts int
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed for %s after %d attempt(s): %v", e.Filename, e.Attempts, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// NewDownloadError creates a DownloadError.
func NewDownloadError(filename, url string, attempts int, err error) *DownloadError {
	return &DownloadError{Filename: filename, URL: url, Attempts: attempts, Err: err}
}

// PatchError reports that applying a single edge's artifact (patch or
// full install) during preparation failed.
type PatchError struct {
	AppName  string
	Platform string
	Version  string
	URL      string
	Err      error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("preparing %s %s (%s) from %s: %v", e.AppName, e.Version, e.Platform, e.URL, e.Err)
}

func (e *PatchError) Unwrap() error { return e.Err }

// NewPatchError creates a PatchError identifying the offending edge.
func NewPatchError(appName, platform, ver, url string, err error) *PatchError {
	return &PatchError{AppName: appName, Platform: platform, Version: ver, URL: url, Err: err}
}

// NoPathError reports that the planner found no route from source to
// target through the current upgrade graph.
type NoPathError struct {
	Source string
	Target string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no upgrade path from %s to %s", e.Source, e.Target)
}

// NewNoPathError creates a NoPathError for the given source/target versions.
func NewNoPathError(source, target string) *NoPathError {
	return &NoPathError{Source: source, Target: target}
}
