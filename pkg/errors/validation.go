package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFilePath validates a local input file path given on the command
// line or in a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Extension must be one of allowed (when allowed is non-empty)
func ValidateFilePath(path string, allowed ...string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if len(allowed) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file extension %q (must be one of: %s)", ext, strings.Join(allowed, ", "))
}

// ValidateIdentifier validates a record or stage identifier.
// Identifiers must be non-empty, free of control characters, and must not
// contain sep, which is reserved by the node-key codec.
func ValidateIdentifier(id, sep string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains invalid control characters")
		}
	}
	if sep != "" && strings.Contains(id, sep) {
		return New(ErrCodeInvalidInput, "identifier %q cannot contain %q", id, sep)
	}
	return nil
}
