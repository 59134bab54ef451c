// Package modal binds the site's modal dialog to its trigger buttons.
//
// The package works on a small DOM abstraction so the behaviour is testable
// without a browser; cmd/modal adapts it to syscall/js.
package modal

// Class names and selectors of the modal markup.
const (
	ActiveClass     = "modal--active"
	CloseSelector   = ".modal__close"
	OverlaySelector = ".modal__overlay"

	TrialSelector        = ".modal-trial"
	TrialTriggerSelector = `[data-modal="trial"]`
)

// Event is a DOM event.
type Event interface {
	// Key is the key of a keyboard event, empty for other events.
	Key() string
	PreventDefault()
}

// Listener handles an event.
type Listener func(Event)

// Target receives events.
type Target interface {
	AddEventListener(kind string, fn Listener)
}

// Element is a DOM element.
type Element interface {
	Target
	// QuerySelector returns the first descendant matching selector.
	QuerySelector(selector string) (Element, bool)
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
}

// Document is the DOM document.
type Document interface {
	Target
	QuerySelector(selector string) (Element, bool)
	QuerySelectorAll(selector string) []Element
}

// Open shows the modal.
func Open(modal Element) {
	modal.AddClass(ActiveClass)
}

// Close hides the modal.
func Close(modal Element) {
	modal.RemoveClass(ActiveClass)
}

// IsOpen reports whether the modal is shown.
func IsOpen(modal Element) bool {
	return modal.HasClass(ActiveClass)
}

// Setup opens the modal on a click on any trigger and closes it on a click on
// its close button or overlay, or on Escape. Unless noPreventDefault is set a
// trigger click does not follow the trigger's link.
func Setup(doc Document, modal Element, triggers []Element, noPreventDefault bool) {
	for _, trigger := range triggers {
		trigger.AddEventListener("click", func(e Event) {
			if !noPreventDefault {
				e.PreventDefault()
			}
			Open(modal)
		})
	}

	for _, selector := range []string{CloseSelector, OverlaySelector} {
		if el, ok := modal.QuerySelector(selector); ok {
			el.AddEventListener("click", func(Event) {
				Close(modal)
			})
		}
	}

	doc.AddEventListener("keydown", func(e Event) {
		if isEscape(e.Key()) && IsOpen(modal) {
			e.PreventDefault()
			Close(modal)
		}
	})
}

// Init binds the trial modal to its triggers. It reports false when the page
// has no trial modal or no trigger.
func Init(doc Document) bool {
	modal, ok := doc.QuerySelector(TrialSelector)
	if !ok {
		return false
	}
	triggers := doc.QuerySelectorAll(TrialTriggerSelector)
	if len(triggers) == 0 {
		return false
	}
	Setup(doc, modal, triggers, false)
	return true
}

// isEscape also accepts "Esc", which older browsers report.
func isEscape(key string) bool {
	return key == "Escape" || key == "Esc"
}
