package form

// Field pairs a form control name with its validators. Validators run in
// order and the first failure wins.
type Field struct {
	Name       string
	Validators []Validator
}

// Rules is an ordered set of field rules.
type Rules []Field

// Names returns the field names in declaration order.
func (r Rules) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Has reports whether a rule exists for name.
func (r Rules) Has(name string) bool {
	for _, f := range r {
		if f.Name == name {
			return true
		}
	}
	return false
}

// ValidateField validates one field. It returns the error message, or ""
// when the value passes or no rule exists for name.
func (r Rules) ValidateField(name, value string) string {
	for _, f := range r {
		if f.Name != name {
			continue
		}
		for _, v := range f.Validators {
			if err := v.Validate(value); err != nil {
				return err.Error()
			}
		}
		return ""
	}
	return ""
}

// Validate checks every field independently. Missing values are treated
// as empty.
func (r Rules) Validate(values map[string]string) Errors {
	var errs Errors
	for _, f := range r {
		if msg := r.ValidateField(f.Name, values[f.Name]); msg != "" {
			errs = append(errs, ValidationError{Field: f.Name, Message: msg})
		}
	}
	return errs
}

// Request form field names.
const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldMessage = "message"
)

// RequestRules returns the rules for the contact request form.
func RequestRules(m Messages) Rules {
	return Rules{
		{Name: FieldName, Validators: []Validator{MinLength(2, m.Name)}},
		{Name: FieldPhone, Validators: []Validator{Phone(m.Phone)}},
		{Name: FieldMessage, Validators: []Validator{MinLength(10, m.Message)}},
	}
}
