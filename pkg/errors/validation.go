package errors

import (
	"strings"
	"unicode"
)

// ValidateJobID validates a job identifier for safety and correctness.
// Job IDs appear in dependency lists, file names and store keys, so the rules
// are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No leading/trailing whitespace
//   - Maximum length of 256 characters
func ValidateJobID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidJobID, "job id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidJobID, "job id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidJobID, "job id contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidJobID, "job id cannot have leading or trailing whitespace")
	}

	return nil
}

// ValidateWorkflowName validates a stored workflow name for safety.
// Names become file basenames and database keys, so path components and
// traversal sequences are rejected outright.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 200 characters
//   - No null bytes or control characters
//   - No path separators (/, \)
//   - No path traversal sequences (..)
//   - No hidden-file prefix (.)
func ValidateWorkflowName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "workflow name cannot be empty")
	}

	const maxNameLength = 200
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "workflow name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "workflow name contains invalid characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "workflow name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "workflow name cannot contain path traversal sequences (..)")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "workflow name cannot be a hidden file")
	}

	return nil
}
