// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxFilenameLength = 255
	MaxLimit          = 100
	DefaultLimit      = 10
)

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateMonth checks a "YYYY-MM" month argument.
func ValidateMonth(s string) error {
	if err := ValidateStringNotEmpty(s, "month"); err != nil {
		return err
	}
	if !monthRegex.MatchString(s) {
		return fmt.Errorf("%w: month ('%s') is not in the expected format (YYYY-MM)", ErrValidationFailed, s)
	}
	return nil
}

// ValidateLimit parses an optional list limit. Empty means DefaultLimit.
func ValidateLimit(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return DefaultLimit, nil
	}
	val, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: limit ('%s') is not a valid integer: %v", ErrValidationFailed, s, err)
	}
	if val < 1 || val > MaxLimit {
		return 0, fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrValidationFailed, MaxLimit, val)
	}
	return val, nil
}
