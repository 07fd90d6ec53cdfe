package form

import (
	"regexp"
	"strings"
	"unicode"
)

// Validator checks a single field value.
type Validator interface {
	// Validate returns nil if the value is valid, or a ValidationError
	// carrying the message to display.
	Validate(value string) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value string) error

func (f ValidatorFunc) Validate(value string) error {
	return f(value)
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Required validates that the trimmed value is non-empty.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value string) error {
		if TrimSpace(value) == "" {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MinLength validates that the trimmed value is at least n long, as
// counted by Length. An empty value fails.
func MinLength(n int, msg string) Validator {
	return ValidatorFunc(func(value string) error {
		if Length(TrimSpace(value)) < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Pattern validates that the value matches re. An empty value is checked
// like any other.
func Pattern(re *regexp.Regexp, msg string) Validator {
	return ValidatorFunc(func(value string) error {
		if !re.MatchString(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Normalized runs v against normalize(value).
func Normalized(normalize func(string) string, v Validator) Validator {
	return ValidatorFunc(func(value string) error {
		return v.Validate(normalize(value))
	})
}

// phonePattern accepts an optional leading plus followed by at least seven
// digits, parentheses or hyphens.
var phonePattern = regexp.MustCompile(`^\+?[0-9()\-]{7,}$`)

// Phone validates a phone number after whitespace is stripped.
func Phone(msg string) Validator {
	return Normalized(NormalizePhone, Pattern(phonePattern, msg))
}

// NormalizePhone removes all whitespace from v.
func NormalizePhone(v string) string {
	return strings.Join(strings.FieldsFunc(v, isSpace), "")
}

// SanitizePhone drops characters that can never appear in a phone number,
// keeping digits, spaces, plus, parentheses and hyphens.
func SanitizePhone(v string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '+', r == '(', r == ')', r == '-', r == ' ':
			return r
		}
		return -1
	}, v)
}

// isSpace matches the whitespace of JavaScript's trim and \s: Unicode
// White_Space without U+0085, plus U+FEFF.
func isSpace(r rune) bool {
	return r == '\uFEFF' || (r != '\u0085' && unicode.IsSpace(r))
}

// TrimSpace trims leading and trailing whitespace the way the browser's
// String.prototype.trim does.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// Length counts UTF-16 code units, the unit of the browser's String
// length. Characters outside the Basic Multilingual Plane count twice.
func Length(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
