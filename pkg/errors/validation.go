package errors

import (
	"math"
	"strings"
	"unicode"
)

// MinThreshold is the smallest accepted row threshold. A row is closed once
// its aggregate aspect ratio reaches the threshold, so anything below one
// would let a single portrait item overflow a row on its own.
const MinThreshold = 1.0

// ValidateThreshold checks a row threshold (target aggregate aspect ratio).
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < MinThreshold {
		return New(ErrCodeInvalidThreshold, "threshold must be greater than 1, received %v", threshold)
	}
	return nil
}

// ValidateAspectRatio checks that an item's aspect ratio is a positive finite number.
func ValidateAspectRatio(ratio float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return New(ErrCodeInvalidAspectRatio, "aspect ratio must be a positive number, received %v", ratio)
	}
	return nil
}

// ValidateSnapshotID validates a stored layout identifier.
// IDs are used as file names and document keys, so they are kept to a
// conservative character set.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 64 characters
//   - Only letters, digits, '-' and '_'
func ValidateSnapshotID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "snapshot id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "snapshot id too long (max 64 characters)")
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return New(ErrCodeInvalidInput, "snapshot id contains invalid character %q", r)
		}
	}
	return nil
}

// ValidatePath validates a relative item path (as produced by directory scans)
// for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
