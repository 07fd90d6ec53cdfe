package form

import "strings"

// Errors holds the failed fields of one validation run in field order.
type Errors []ValidationError

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	for _, ve := range e {
		if ve.Field == field {
			return ve.Message
		}
	}
	return ""
}

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	return e.Get(field) != ""
}

// First returns the first failed field, or "" and false.
func (e Errors) First() (string, bool) {
	if len(e) == 0 {
		return "", false
	}
	return e[0].Field, true
}

// Valid reports whether no field failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// Fields returns the failed field names in order.
func (e Errors) Fields() []string {
	out := make([]string, len(e))
	for i, ve := range e {
		out[i] = ve.Field
	}
	return out
}

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Field + ": " + ve.Message
	}
	return strings.Join(parts, "; ")
}
