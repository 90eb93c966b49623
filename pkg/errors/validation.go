package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds element identifiers so they stay usable as map keys and in URLs.
const maxIDLength = 128

// idRegex matches identifiers made of letters, digits and the separators ._:-
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateID validates an element identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - No control characters or whitespace
//   - Must start with a letter or digit
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidElement, "element id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidElement, "element id too long (max %d characters)", maxIDLength)
	}

	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidElement, "invalid element id: %q", id)
	}

	return nil
}

// maxExpressionLength keeps pathological inputs away from the compiler.
const maxExpressionLength = 1024

// ValidateExpression checks that a function expression is non-empty and printable.
// Parsing is left to the expression compiler.
func ValidateExpression(src string) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidExpression, "expression cannot be empty")
	}

	if len(src) > maxExpressionLength {
		return New(ErrCodeInvalidExpression, "expression too long (max %d characters)", maxExpressionLength)
	}

	for _, r := range src {
		if r == '\x00' || (unicode.IsControl(r) && !unicode.IsSpace(r)) {
			return New(ErrCodeInvalidExpression, "expression contains invalid control characters")
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values for the named field.
func ValidateFinite(field string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s must be finite, got %v", field, v)
		}
	}
	return nil
}
