// Package navigation resolves section ids on the page and asks the rendering
// surface to bring them into view.
package navigation

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Alignment says which edge of the element lines up with the viewport.
type Alignment string

const (
	AlignStart   Alignment = "start"
	AlignCenter  Alignment = "center"
	AlignEnd     Alignment = "end"
	AlignNearest Alignment = "nearest"
)

// Element is a handle to an addressable section of the page.
type Element struct {
	ID    string
	Label string
}

// Document looks up elements by id.
type Document interface {
	FindByID(id string) (Element, bool)
}

// Scroller performs a smooth, animated scroll to an element.
type Scroller interface {
	SmoothScrollIntoView(el Element, align Alignment)
}

// Surface is a document that can also be scrolled.
type Surface interface {
	Document
	Scroller
}

// ScrollFunc is the shape handed to views that need to navigate.
type ScrollFunc func(s Surface, id string)

// ScrollToSection scrolls the section with the given id to the top of the
// viewport. Unknown ids are ignored.
func ScrollToSection(s Surface, id string) {
	if s == nil || id == "" {
		return
	}
	el, ok := s.FindByID(id)
	if !ok {
		return
	}
	s.SmoothScrollIntoView(el, AlignStart)
}

// Sections is the ordered list of sections on the page.
type Sections []Element

// DefaultSections is the page layout, top to bottom.
func DefaultSections() Sections {
	return Sections{
		{ID: "home", Label: "Home"},
		{ID: "about", Label: "About"},
		{ID: "skills", Label: "Skills"},
		{ID: "projects", Label: "Projects"},
		{ID: "contact", Label: "Contact"},
	}
}

func (ss Sections) FindByID(id string) (Element, bool) {
	for _, el := range ss {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// Bind attaches the sections to an HTTP response so scroll requests are
// forwarded to the browser.
func (ss Sections) Bind(h http.Header) *TriggerSurface {
	return &TriggerSurface{Document: ss, header: h}
}

// TriggerEvent is the client-side event name the page script listens for.
const TriggerEvent = "scroll-to-section"

type scrollRequest struct {
	Target   string `json:"target"`
	Behavior string `json:"behavior"`
	Block    string `json:"block"`
}

// TriggerSurface turns scroll requests into an HX-Trigger response header.
type TriggerSurface struct {
	Document
	header    http.Header
	requested bool
}

func (t *TriggerSurface) SmoothScrollIntoView(el Element, align Alignment) {
	payload, err := json.Marshal(map[string]scrollRequest{
		TriggerEvent: {Target: el.ID, Behavior: "smooth", Block: string(align)},
	})
	if err != nil {
		return
	}
	t.header.Set("HX-Trigger", string(payload))
	t.requested = true
}

// Requested reports whether a scroll was forwarded.
func (t *TriggerSurface) Requested() bool { return t.requested }

// Normalize trims a raw id taken from a URL or a fragment link.
func Normalize(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "#")
}
