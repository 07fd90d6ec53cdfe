package site

import (
	"github.com/vango-dev/landing/pkg/dom"
	"golang.org/x/net/html"
)

// Page builds the landing page markup for c. The tree is deterministic,
// so documents built from the same content assign the same live ids.
func Page(c Content) *html.Node {
	l := c.Labels
	return dom.HTMLDocument(dom.El("html", dom.A("lang", c.Lang),
		dom.El("head",
			dom.El("title", c.Title),
			dom.El("meta", dom.A("name", "description"), dom.A("content", c.Description)),
		),
		dom.El("body",
			header(c),
			dom.El("main", dom.ID("main"),
				hero(c),
				services(c),
				reviews(c),
				contacts(c),
			),
			dom.El("footer", dom.Class("footer"),
				dom.El("p", c.Brand+" · "+c.Contact.Address),
				dom.El("button", dom.Type("button"), dom.Class("link-button"), dom.Data("open-modal", "privacy"), l.Privacy),
			),
			dom.El("div", dom.Class("toast"), dom.Data("toast", ""), dom.A("role", "status"), dom.A("aria-live", "polite")),
			requestModal(c),
			privacyModal(c),
		),
	))
}

// NewDocument builds a fresh document for c.
func NewDocument(c Content) *dom.Document {
	return dom.New(Page(c))
}

func header(c Content) *html.Node {
	l := c.Labels
	return dom.El("header", dom.Class("header"), dom.Data("header", ""),
		dom.El("a", dom.Class("logo"), dom.Href("#top"), c.Brand),
		dom.El("button", dom.Type("button"), dom.Class("menu-button"),
			dom.Data("menu-button", ""), dom.A("aria-controls", "site-nav"), dom.AriaLabel(l.Menu),
			dom.El("span", dom.Class("menu-icon")),
		),
		dom.El("nav", dom.ID("site-nav"), dom.Class("nav"), dom.Data("nav", ""),
			dom.El("a", dom.Class("nav-link"), dom.Href("#services"), l.Services),
			dom.El("a", dom.Class("nav-link"), dom.Href("#reviews"), l.Reviews),
			dom.El("a", dom.Class("nav-link"), dom.Href("#contacts"), l.Contacts),
			dom.El("button", dom.Type("button"), dom.Class("button", "button-small"), dom.Data("open-modal", "request"), l.Request),
		),
	)
}

func hero(c Content) *html.Node {
	return dom.El("section", dom.ID("top"), dom.Class("hero"),
		dom.El("div", dom.Class("hero-copy"),
			dom.El("h1", c.Hero.Title),
			dom.El("p", dom.Class("lead"), c.Hero.Lead),
			dom.El("button", dom.Type("button"), dom.Class("button"), dom.Data("open-modal", "request"), c.Labels.Request),
		),
		dom.El("div", dom.Class("hero-card-glass"), dom.A("aria-hidden", "true"),
			dom.El("p", c.Hero.Card),
		),
	)
}

func services(c Content) *html.Node {
	cards := make([]*html.Node, 0, len(c.Services))
	for _, s := range c.Services {
		cards = append(cards, dom.El("article", dom.Class("card"),
			dom.El("h3", s.Title),
			dom.El("p", s.Text),
		))
	}
	return dom.El("section", dom.ID("services"), dom.Class("section"),
		dom.El("h2", c.Labels.Services),
		dom.El("div", dom.Class("grid"), cards),
	)
}

func reviews(c Content) *html.Node {
	quotes := make([]*html.Node, 0, len(c.Reviews))
	for _, r := range c.Reviews {
		quotes = append(quotes, dom.El("blockquote", dom.Class("review-card"),
			dom.El("p", r.Text),
			dom.El("cite", r.Author),
		))
	}
	return dom.El("section", dom.ID("reviews"), dom.Class("section"),
		dom.El("h2", c.Labels.Reviews),
		dom.El("div", dom.Class("grid"), quotes),
	)
}

func contacts(c Content) *html.Node {
	return dom.El("section", dom.ID("contacts"), dom.Class("section"),
		dom.El("h2", c.Labels.Contacts),
		dom.El("p", dom.El("a", dom.Href("tel:"+c.Contact.Phone), c.Contact.Phone)),
		dom.El("p", dom.El("a", dom.Href("mailto:"+c.Contact.Email), c.Contact.Email)),
		dom.El("button", dom.Type("button"), dom.Class("button"), dom.Data("open-modal", "request"), c.Labels.Request),
	)
}

func field(name, label, control string, extra ...dom.Attr) *html.Node {
	id := "field-" + name
	attrs := append([]dom.Attr{dom.ID(id), dom.Name(name), dom.A("aria-describedby", "error-"+name)}, extra...)
	return dom.El("div", dom.Class("field"),
		dom.El("label", dom.A("for", id), label),
		dom.El(control, attrs),
		dom.El("div", dom.ID("error-"+name), dom.Class("field-error"), dom.Data("error-for", name)),
	)
}

func requestModal(c Content) *html.Node {
	l := c.Labels
	return dom.El("div", dom.Class("modal"), dom.Data("modal", "request"), dom.A("aria-hidden", "true"),
		dom.El("div", dom.Class("modal-backdrop"), dom.Data("close-modal", "")),
		dom.El("div", dom.Class("modal-dialog"), dom.Data("modal-dialog", ""),
			dom.A("role", "dialog"), dom.A("aria-modal", "true"), dom.A("aria-labelledby", "request-title"),
			dom.El("button", dom.Type("button"), dom.Class("modal-close"), dom.Data("close-modal", ""), dom.AriaLabel(l.Close), "×"),
			dom.El("h2", dom.ID("request-title"), l.Request),
			dom.El("form", dom.ID("request-form"), dom.A("novalidate", ""),
				field("name", l.Name, "input", dom.Type("text"), dom.A("autocomplete", "name")),
				field("phone", l.Phone, "input", dom.Type("tel"), dom.A("autocomplete", "tel")),
				field("message", l.Message, "textarea", dom.A("rows", "4")),
				dom.El("div", dom.ID("request-form-error"), dom.Class("form-alert"), dom.A("role", "alert")),
				dom.El("button", dom.Type("submit"), dom.Class("button"), l.Send),
			),
		),
	)
}

func privacyModal(c Content) *html.Node {
	l := c.Labels
	return dom.El("div", dom.Class("modal"), dom.Data("modal", "privacy"), dom.A("aria-hidden", "true"),
		dom.El("div", dom.Class("modal-backdrop"), dom.Data("close-modal", "")),
		dom.El("div", dom.Class("modal-dialog"), dom.Data("modal-dialog", ""), dom.A("role", "dialog"), dom.A("aria-modal", "true"),
			dom.El("h2", l.PrivacyTitle),
			dom.El("p", l.PrivacyText),
			dom.El("button", dom.Type("button"), dom.Class("button"), dom.Data("close-modal", ""), l.Close),
		),
	)
}
