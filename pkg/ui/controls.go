package ui

import "github.com/vango-dev/landing/pkg/dom"

// Markup hooks shared with the page.
const (
	selHeader      = "[data-header]"
	selNav         = "[data-nav]"
	selMenuButton  = "[data-menu-button]"
	selToast       = "[data-toast]"
	selModal       = "[data-modal]"
	selOpenModal   = "[data-open-modal]"
	selCloseModal  = "[data-close-modal]"
	selModalDialog = "[data-modal-dialog]"
	selErrorFor    = "[data-error-for]"
	selNavLink     = ".nav-link"
	selAnchor      = `a[href^="#"]`

	formID      = "request-form"
	formAlertID = "request-form-error"
)

// State classes toggled by the controllers.
const (
	ClassScrolled = "is-scrolled"
	ClassOpen     = "is-open"
	ClassVisible  = "is-visible"
	ClassRevealed = "is-revealed"
)

var (
	revealSelectors   = []string{"section.section", ".card", ".review-card"}
	parallaxSelectors = []string{".hero-card-glass", ".hero-copy"}
)

// Controls is the page's lookup table, resolved once when the controller
// is created. A nil element means the page does not have that control.
type Controls struct {
	Header     *dom.Element
	Nav        *dom.Element
	MenuButton *dom.Element
	Toast      *dom.Element
	Body       *dom.Element

	// Modals lists [data-modal] elements in document order.
	Modals []*dom.Element

	// Openers lists [data-open-modal] triggers.
	Openers []*dom.Element

	// NavLinks are the .nav-link elements inside the nav, or in the whole
	// document when there is no nav.
	NavLinks []*dom.Element

	// Anchors are same-page links.
	Anchors []*dom.Element

	Form      *dom.Element
	FormAlert *dom.Element

	// ErrorSlots maps a field name to its [data-error-for] element.
	ErrorSlots map[string]*dom.Element

	Reveal   []*dom.Element
	Parallax []*dom.Element
}

// ResolveControls looks up every control the page controllers use.
func ResolveControls(doc *dom.Document) Controls {
	c := Controls{
		Header:     doc.Query(selHeader),
		Nav:        doc.Query(selNav),
		MenuButton: doc.Query(selMenuButton),
		Toast:      doc.Query(selToast),
		Body:       doc.Body(),
		Modals:     doc.QueryAll(selModal),
		Openers:    doc.QueryAll(selOpenModal),
		Anchors:    doc.QueryAll(selAnchor),
		Form:       doc.GetElementByID(formID),
		FormAlert:  doc.GetElementByID(formAlertID),
		ErrorSlots: make(map[string]*dom.Element),
	}
	if c.Nav != nil {
		c.NavLinks = c.Nav.QueryAll(selNavLink)
	} else {
		c.NavLinks = doc.QueryAll(selNavLink)
	}
	for _, el := range doc.QueryAll(selErrorFor) {
		name := el.GetAttr("data-error-for")
		if _, dup := c.ErrorSlots[name]; !dup {
			c.ErrorSlots[name] = el
		}
	}
	seen := make(map[*dom.Element]bool)
	for _, sel := range revealSelectors {
		for _, el := range doc.QueryAll(sel) {
			if !seen[el] {
				seen[el] = true
				c.Reveal = append(c.Reveal, el)
			}
		}
	}
	for _, sel := range parallaxSelectors {
		if el := doc.Query(sel); el != nil {
			c.Parallax = append(c.Parallax, el)
		}
	}
	return c
}

// Modal returns the modal named name, or nil.
func (c Controls) Modal(name string) *dom.Element {
	for _, m := range c.Modals {
		if m.GetAttr("data-modal") == name {
			return m
		}
	}
	return nil
}
