package ui

import (
	"log/slog"
	"strconv"

	"github.com/vango-dev/landing/pkg/dom"
	"github.com/vango-dev/landing/pkg/form"
)

// requestModal is the modal that hosts the request form.
const requestModal = "request"

// Form validates the request form live and on submit. Submission is a
// demo: a valid form is acknowledged with a toast and reset.
type Form struct {
	doc      *dom.Document
	controls Controls
	rules    form.Rules
	messages form.Messages
	toast    *Toast
	modals   *Modals
	logger   *slog.Logger

	settling  bool
	submitted int
}

func newForm(doc *dom.Document, c Controls, m form.Messages, toast *Toast, modals *Modals, logger *slog.Logger) *Form {
	f := &Form{
		doc:      doc,
		controls: c,
		rules:    form.RequestRules(m),
		messages: m,
		toast:    toast,
		modals:   modals,
		logger:   logger,
	}
	if c.Form == nil {
		return f
	}
	c.Form.AddEventListener(dom.EventInput, f.onInput)
	c.Form.AddEventListener(dom.EventSubmit, f.onSubmit)
	for _, name := range f.rules.Names() {
		name := name
		if ctl := doc.Control(c.Form, name); ctl != nil {
			ctl.AddEventListener(dom.EventBlur, func(*dom.Event) {
				if !f.settling {
					f.ValidateField(name)
				}
			})
		}
	}
	return f
}

func (f *Form) onInput(ev *dom.Event) {
	t := ev.Target
	if t == nil || (t.Tag() != "input" && t.Tag() != "textarea") {
		return
	}
	name := t.Name()
	f.setFieldError(name, "")
	f.setAlert("")
	if name == form.FieldPhone {
		if clean := form.SanitizePhone(t.Value()); clean != t.Value() {
			t.SetValue(clean)
		}
	}
	if form.Length(t.Value()) > 1 {
		f.ValidateField(name)
	}
}

func (f *Form) onSubmit(ev *dom.Event) {
	ev.PreventDefault()
	f.Submit()
}

// ValidateField validates one field, shows or clears its error and
// reports whether it passed. Unknown fields pass.
func (f *Form) ValidateField(name string) bool {
	if !f.rules.Has(name) {
		return true
	}
	ctl := f.doc.Control(f.controls.Form, name)
	if ctl == nil {
		return true
	}
	msg := f.rules.ValidateField(name, ctl.Value())
	f.setFieldError(name, msg)
	ctl.SetAttr("aria-invalid", strconv.FormatBool(msg != ""))
	return msg == ""
}

// Validate checks every field without touching the page.
func (f *Form) Validate() form.Errors {
	return f.rules.Validate(f.doc.FormValues(f.controls.Form))
}

// Submit validates the whole form. On failure it shows every error and
// focuses the first invalid field; on success it shows the demo
// acknowledgement, resets the form and closes the request modal.
func (f *Form) Submit() form.Errors {
	if f.controls.Form == nil {
		return nil
	}
	errs := f.Validate()
	for _, name := range f.rules.Names() {
		msg := errs.Get(name)
		f.setFieldError(name, msg)
		if ctl := f.doc.Control(f.controls.Form, name); ctl != nil {
			ctl.SetAttr("aria-invalid", strconv.FormatBool(msg != ""))
		}
	}
	if first, ok := errs.First(); ok {
		f.setAlert(f.messages.Alert)
		if ctl := f.doc.Control(f.controls.Form, first); ctl != nil {
			ctl.Focus()
		}
		f.logger.Debug("request form rejected", "fields", errs.Fields())
		return errs
	}

	f.submitted++
	f.logger.Info("request form accepted", "submissions", f.submitted)
	f.settling = true
	f.toast.Show(f.messages.Success)
	f.doc.ResetForm(f.controls.Form)
	f.modals.Close(requestModal)
	f.clear()
	f.settling = false
	return nil
}

// Submissions returns the number of accepted submissions.
func (f *Form) Submissions() int { return f.submitted }

func (f *Form) clear() {
	for _, name := range f.rules.Names() {
		f.setFieldError(name, "")
		if ctl := f.doc.Control(f.controls.Form, name); ctl != nil {
			ctl.RemoveAttr("aria-invalid")
		}
	}
	f.setAlert("")
}

func (f *Form) setFieldError(name, msg string) {
	if slot := f.controls.ErrorSlots[name]; slot != nil {
		slot.SetText(msg)
	}
}

func (f *Form) setAlert(msg string) {
	if f.controls.FormAlert != nil {
		f.controls.FormAlert.SetText(msg)
	}
}
