// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users hit an error in the browser, the API or the terminal client, they can
// quote the code to support staff for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Table not found: The requested table does not exist
//	         Action: Pick a table from the catalog
//	         Patterns: "table not found"
//
//	TBL002 - Unknown table: Dataset id is not registered
//	         Action: Pick a table from the catalog
//	         Patterns: "unknown table"
//
// # Reference Errors (REF001-REF099)
//
//	REF001 - Not found: No record or chapter matches the reference
//	         Action: Check the UN number or chapter id
//	         Patterns: "reference not found", "chapter not found"
//
//	REF002 - Invalid UN number: The value is not a UN number
//	         Action: Enter a number such as 1203 or UN1203
//	         Patterns: "invalid un number"
//
// # Assistant Errors (AI001-AI099)
//
//	AI001 - Not configured: The assistant has no API key
//	        Action: Set GEMINI_API_KEY and restart
//	        Patterns: "assistant not configured"
//
//	AI002 - Provider error: The hosted model rejected the request
//	        Action: Please try again later
//	        Patterns: "provider error"
//
//	AI003 - Empty prompt: No question or shipment was supplied
//	        Action: Enter a question before asking
//	        Patterns: "empty prompt"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Invalid update: The governance update was rejected
//	         Action: Check the edition, date and data source values
//	         Patterns: "invalid regulatory config"
//
// # Request Errors (REQ001-REQ003)
//
//	REQ001 - Bad request: The request body could not be decoded
//	         Action: Send a JSON body matching the documented fields
//	         Patterns: "invalid request body"
//
//	REQ002 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	REQ003 - Request timeout: Request timed out
//	         Action: Try again or narrow the request
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
var errorPatterns = []errorPattern{
	// =========================================================================
	// Table Errors (TBL001-TBL002)
	// =========================================================================
	{
		pattern: "table not found",
		msg: UserMessage{
			Message: "Table not found",
			Action:  "Pick a table from the catalog",
			Code:    "TBL001",
		},
	},
	{
		pattern: "unknown table",
		msg: UserMessage{
			Message: "Unknown table",
			Action:  "Pick a table from the catalog",
			Code:    "TBL002",
		},
	},

	// =========================================================================
	// Reference Errors (REF001-REF002)
	// =========================================================================
	{
		pattern: "reference not found",
		msg: UserMessage{
			Message: "No matching record was found",
			Action:  "Check the UN number or chapter id",
			Code:    "REF001",
		},
	},
	{
		pattern: "chapter not found",
		msg: UserMessage{
			Message: "No matching chapter was found",
			Action:  "Check the UN number or chapter id",
			Code:    "REF001",
		},
	},
	{
		pattern: "invalid un number",
		msg: UserMessage{
			Message: "The value is not a UN number",
			Action:  "Enter a number such as 1203 or UN1203",
			Code:    "REF002",
		},
	},

	// =========================================================================
	// Assistant Errors (AI001-AI003)
	// =========================================================================
	{
		pattern: "assistant not configured",
		msg: UserMessage{
			Message: "The AI assistant is not configured",
			Action:  "Set GEMINI_API_KEY and restart",
			Code:    "AI001",
		},
	},
	{
		pattern: "provider error",
		msg: UserMessage{
			Message: "The hosted model rejected the request",
			Action:  "Please try again later",
			Code:    "AI002",
		},
	},
	{
		pattern: "empty prompt",
		msg: UserMessage{
			Message: "Nothing to ask",
			Action:  "Enter a question before asking",
			Code:    "AI003",
		},
	},

	// =========================================================================
	// Configuration Errors (CFG001)
	// =========================================================================
	{
		pattern: "invalid regulatory config",
		msg: UserMessage{
			Message: "The configuration update was rejected",
			Action:  "Check the edition, date and data source values",
			Code:    "CFG001",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ003)
	// =========================================================================
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a JSON body matching the documented fields",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or narrow the request",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("load: %w", ErrUnknownTable)
//	msg := MapError(err)
//	// msg.Code == "TBL002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "Unknown table (Code: TBL002). Pick a table from the catalog"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
//
// Example:
//
//	if IsUserFacing(err) {
//	    showToUser(FormatUserError(err))
//	} else {
//	    log.Error(err) // Log technical error
//	    showToUser("An error occurred. Please try again.")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
//
// Returns nil if err is nil.
//
// Example:
//
//	ue := NewUserError(err)
//	log.Error(ue.Technical)    // Log original error
//	fmt.Println(ue.Error())    // Show "Unknown table"
//	fmt.Println(ue.User.Code)  // Show "TBL002"
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
