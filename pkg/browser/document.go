package browser

import (
	"context"

	"github.com/vango-dev/pagekit/pkg/dom"
)

var _ dom.Document = (*Tab)(nil)

// ElementByID implements dom.Document over document.getElementById.
func (t *Tab) ElementByID(id string) (dom.Element, bool) {
	expr, err := call("document.getElementById", id)
	if err != nil {
		return nil, false
	}
	var exists bool
	if err := t.eval(context.Background(), expr+" !== null", &exists); err != nil {
		t.logger.Warn("element lookup failed", "id", id, "error", err)
		return nil, false
	}
	if !exists {
		return nil, false
	}
	return &element{tab: t, id: id}, true
}

// element is a live element addressed by id. Each method runs one script.
type element struct {
	tab *Tab
	id  string
}

func (e *element) ID() string { return e.id }

func (e *element) HasClass(class string) bool {
	var has bool
	e.classList("contains", class, &has)
	return has
}

func (e *element) AddClass(class string) {
	e.classList("add", class, nil)
}

func (e *element) RemoveClass(class string) {
	e.classList("remove", class, nil)
}

func (e *element) classList(method, class string, res any) {
	expr, err := call(`((id, c) => { const el = document.getElementById(id); return el ? el.classList.`+method+`(c) === true : false; })`, e.id, class)
	if err != nil {
		return
	}
	if res == nil {
		expr += ", true"
	}
	if err := e.tab.eval(context.Background(), expr, res); err != nil {
		e.tab.logger.Warn("classList update failed", "id", e.id, "method", method, "error", err)
	}
}
