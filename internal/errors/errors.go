// Package errors defines stable error codes for ubd failure modes.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParseFailed indicates the tree-sitter parser could not produce a tree
	ParseFailed ErrorCode = "PARSE_FAILED"
	// UnsupportedLanguage indicates a file extension with no grammar
	UnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	// ConfigInvalid indicates a malformed configuration or rc file
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// PolicyInvalid indicates an unrecognized rule policy shape
	PolicyInvalid ErrorCode = "POLICY_INVALID"
	// CacheUnavailable indicates the results cache could not be opened
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// FileUnreadable indicates a source file could not be read
	FileUnreadable ErrorCode = "FILE_UNREADABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// UbdError represents a ubd error with code, message, and suggestions
type UbdError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new UbdError
func New(code ErrorCode, message string, cause error) *UbdError {
	return &UbdError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *UbdError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *UbdError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *UbdError) WithDetails(details interface{}) *UbdError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "ubd config show",
			Safe:        true,
			Description: "Inspect the effective configuration",
		},
	},
	PolicyInvalid: {
		{
			Type:        RunCommand,
			Command:     `ubd check --policy nofunc`,
			Safe:        true,
			Description: "Use the built-in policy that exempts function declarations",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "ubd check --no-cache",
			Safe:        true,
			Description: "Run without the results cache",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
