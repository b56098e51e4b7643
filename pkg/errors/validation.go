package errors

import (
	"strings"
	"unicode"
)

// MaxIDLength bounds node identifiers accepted from documents and requests.
const MaxIDLength = 256

// ValidateNodeID validates a node identifier for safety and correctness.
// Identifiers end up in cache keys, store documents and URL paths, so the
// rules are conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path separators
//   - Maximum length of MaxIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "node id cannot contain path separators: %q", id)
	}

	return nil
}

// ValidateText validates the annotation text carried by a node.
// Empty text is allowed; only the size is bounded.
func ValidateText(text string, maxLen int) error {
	if maxLen > 0 && len(text) > maxLen {
		return New(ErrCodeInvalidInput, "text too long (max %d characters)", maxLen)
	}
	return nil
}
