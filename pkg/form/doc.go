// Package form validates the contact request form.
//
// Rules are declared per field and evaluated independently, so a single
// run reports every failing field:
//
//	errs := form.RequestRules(form.English).Validate(map[string]string{
//	    "name":    "Al",
//	    "phone":   "+1 (234) 567-8901",
//	    "message": "too short",
//	})
//	field, _ := errs.First() // "message"
//
// Copy lives in Messages catalogs; MessagesFor picks one by locale.
package form
