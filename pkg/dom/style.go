package dom

import "strings"

type styleProp struct {
	name  string
	value string
}

func parseStyle(s string) []styleProp {
	var props []styleProp
	for _, decl := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		props = append(props, styleProp{name: name, value: strings.TrimSpace(value)})
	}
	return props
}

func formatStyle(props []styleProp) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, p.name+": "+p.value)
	}
	return strings.Join(parts, "; ")
}

// Style returns the inline style property value, or "" when unset.
func (e *Element) Style(name string) string {
	for _, p := range parseStyle(e.GetAttr("style")) {
		if p.name == name {
			return p.value
		}
	}
	return ""
}

// SetStyle sets an inline style property. Custom properties (--name) are
// accepted like any other.
func (e *Element) SetStyle(name, value string) {
	props := parseStyle(e.GetAttr("style"))
	found := false
	for i := range props {
		if props[i].name == name {
			if props[i].value == value {
				return
			}
			props[i].value = value
			found = true
			break
		}
	}
	if !found {
		props = append(props, styleProp{name: name, value: value})
	}
	e.setAttrRaw("style", formatStyle(props))
	e.doc.record(Patch{Op: PatchSetStyle, LID: e.lid, Key: name, Value: value})
}

// RemoveStyle clears an inline style property.
func (e *Element) RemoveStyle(name string) {
	props := parseStyle(e.GetAttr("style"))
	kept := props[:0]
	found := false
	for _, p := range props {
		if p.name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return
	}
	if len(kept) == 0 {
		e.removeAttrRaw("style")
	} else {
		e.setAttrRaw("style", formatStyle(kept))
	}
	e.doc.record(Patch{Op: PatchRemoveStyle, LID: e.lid, Key: name})
}
