//go:build js && wasm

// Command modal is the browser entry point of the site's modal dialog.
// Build with GOOS=js GOARCH=wasm.
package main

import (
	"syscall/js"

	"go.trai.ch/sitepress/internal/modal"
)

func main() {
	doc := document{js.Global().Get("document")}
	if !modal.Init(doc) {
		return
	}
	select {}
}

type event struct{ v js.Value }

func (e event) Key() string {
	key := e.v.Get("key")
	if key.Type() != js.TypeString {
		return ""
	}
	return key.String()
}

func (e event) PreventDefault() {
	e.v.Call("preventDefault")
}

func addEventListener(v js.Value, kind string, fn modal.Listener) {
	v.Call("addEventListener", kind, js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(event{args[0]})
		}
		return nil
	}))
}

func querySelector(v js.Value, selector string) (modal.Element, bool) {
	found := v.Call("querySelector", selector)
	if found.IsNull() || found.IsUndefined() {
		return nil, false
	}
	return element{found}, true
}

type element struct{ v js.Value }

func (el element) AddEventListener(kind string, fn modal.Listener) {
	addEventListener(el.v, kind, fn)
}

func (el element) QuerySelector(selector string) (modal.Element, bool) {
	return querySelector(el.v, selector)
}

func (el element) AddClass(name string) {
	el.v.Get("classList").Call("add", name)
}

func (el element) RemoveClass(name string) {
	el.v.Get("classList").Call("remove", name)
}

func (el element) HasClass(name string) bool {
	return el.v.Get("classList").Call("contains", name).Bool()
}

type document struct{ v js.Value }

func (d document) AddEventListener(kind string, fn modal.Listener) {
	addEventListener(d.v, kind, fn)
}

func (d document) QuerySelector(selector string) (modal.Element, bool) {
	return querySelector(d.v, selector)
}

func (d document) QuerySelectorAll(selector string) []modal.Element {
	list := d.v.Call("querySelectorAll", selector)
	n := list.Length()
	els := make([]modal.Element, 0, n)
	for i := range n {
		els = append(els, element{list.Index(i)})
	}
	return els
}
