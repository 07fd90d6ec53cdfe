package dom

const controlSelector = "input[name], textarea[name], select[name]"

// FormValues returns the named controls' current values, like
// Object.fromEntries(new FormData(form)). Later controls with the same
// name win.
func (d *Document) FormValues(form *Element) map[string]string {
	values := make(map[string]string)
	if form == nil {
		return values
	}
	for _, c := range form.QueryAll(controlSelector) {
		if c.HasAttr("disabled") {
			continue
		}
		values[c.Name()] = c.Value()
	}
	return values
}

// Control returns the form control with the given name, or nil.
func (d *Document) Control(form *Element, name string) *Element {
	if form == nil {
		return nil
	}
	for _, c := range form.QueryAll(controlSelector) {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// ResetForm restores every control to its default value.
func (d *Document) ResetForm(form *Element) {
	if form == nil {
		return
	}
	for _, c := range form.QueryAll("input, textarea, select") {
		c.SetValue(c.DefaultValue())
	}
}
