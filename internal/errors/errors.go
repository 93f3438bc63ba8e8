// Package errors provides structured CLI error types for conbridge.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output across both the adapter
// and agent entrypoints. The taxonomy follows spec.md §7: setup errors,
// transport errors, and protocol violations each get a distinct exit code
// so scripts driving the adapter can distinguish them.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for CLI errors.
const (
	ExitSuccess   = 0  // Successful execution
	ExitGeneral   = 1  // General error
	ExitSetup     = 2  // Agent spawn / pipe connect / handshake failure
	ExitTransport = 3  // Unexpected EOF, short write, bad length prefix
	ExitConfig    = 4  // Configuration error
	ExitProtocol  = 5  // Unknown message kind, bad length, other wire violation
	ExitUsage     = 64 // Command line usage error (BSD convention)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Setup errors (spec.md §7 "Setup errors") ---

// AgentSpawnFailed returns an error for a failed agent process launch.
func AgentSpawnFailed(cause error) *CLIError {
	return &CLIError{
		Message: "Failed to spawn conbridge-agent",
		Hint:    "Check that conbridge-agent is on PATH and executable",
		Cause:   cause,
		Code:    ExitSetup,
	}
}

// PipeConnectFailed returns an error for a failed named-pipe connection.
func PipeConnectFailed(pipeName string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to connect to pipe: %s", pipeName),
		Hint:    "The agent may not have started in time; check its stderr output",
		Cause:   cause,
		Code:    ExitSetup,
	}
}

// HandshakeFailed returns an error for a failed Ping handshake.
func HandshakeFailed(cause error) *CLIError {
	return &CLIError{
		Message: "Handshake with agent failed",
		Hint:    "The agent did not reply to Ping with a zero word before the timeout",
		Cause:   cause,
		Code:    ExitSetup,
	}
}

// BufferWidthTooLarge returns an error when a resize exceeds the hard cap.
func BufferWidthTooLarge(requested, max int) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Requested buffer width %d exceeds maximum %d", requested, max),
		Hint:    "Resize to a narrower window",
		Code:    ExitSetup,
	}
}

// --- Transport errors (spec.md §7 "Transport errors") ---

// UnexpectedEOF returns an error for an unexpected end of a pipe stream.
func UnexpectedEOF(pipeName string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Unexpected EOF on %s", pipeName),
		Hint:    "The peer process exited or closed its pipe handle",
		Code:    ExitTransport,
	}
}

// ShortWrite returns an error when a pipe write completes fewer bytes than requested.
func ShortWrite(pipeName string, wrote, want int) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Short write on %s: wrote %d of %d bytes", pipeName, wrote, want),
		Code:    ExitTransport,
	}
}

// LengthPrefixMismatch returns an error for a frame whose declared length disagrees with its payload.
func LengthPrefixMismatch(declared, actual uint64) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Frame length prefix mismatch: declared %d, read %d", declared, actual),
		Code:    ExitTransport,
	}
}

// --- Protocol errors (spec.md §7 "Protocol violation") ---

// UnknownMessageKind returns an error for a control message with an unrecognized kind tag.
func UnknownMessageKind(kind uint32) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Unknown control message kind: %d", kind),
		Code:    ExitProtocol,
	}
}

// ReplyOutOfOrder returns an error when a reply arrives without a matching outstanding request.
func ReplyOutOfOrder() *CLIError {
	return &CLIError{
		Message: "Received a control-pipe reply with no outstanding request",
		Code:    ExitProtocol,
	}
}

// --- Config errors ---

// ConfigFailed returns an error for configuration load/save failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your conbridge config directory",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// InvalidLoggingConfig returns an error for a bad --log-* flag/env combination.
func InvalidLoggingConfig(cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Invalid logging configuration: %v", cause),
		Hint:    "Use --log-level (error|warn|info|debug), --log-format (json|text), --log-stderr (auto|on|off), and/or --log-file",
		Code:    ExitUsage,
	}
}
