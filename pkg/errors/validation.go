package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateName validates an object, net or design name for emission.
// LEF/DEF identifiers are whitespace-delimited, so names must be non-empty
// and free of whitespace and control characters. The semicolon is the
// statement terminator in both formats and is rejected as well.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 1024 {
		return New(ErrCodeInvalidInput, "name too long (max 1024 characters)")
	}

	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name %q contains whitespace or control characters", name)
		}
	}

	if strings.Contains(name, ";") {
		return New(ErrCodeInvalidInput, "name %q contains invalid character %q", name, ";")
	}

	return nil
}

// ValidateManifestEntry validates a file name listed in an .aux manifest.
// Entries are resolved relative to the manifest's directory and must not
// escape it.
//
// Validation rules:
//   - Entry cannot be empty
//   - No null bytes or control characters
//   - No absolute paths
//   - No parent directory traversal (..)
func ValidateManifestEntry(entry string) error {
	if entry == "" {
		return New(ErrCodeInvalidPath, "manifest entry cannot be empty")
	}

	for _, r := range entry {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "manifest entry contains invalid characters")
		}
	}

	if filepath.IsAbs(entry) || strings.HasPrefix(entry, "/") {
		return New(ErrCodeInvalidPath, "manifest entry %q must be relative", entry)
	}

	for _, part := range strings.FieldsFunc(entry, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "manifest entry %q cannot contain path traversal sequences (..)", entry)
		}
	}

	return nil
}
