package dom

import "github.com/vango-dev/pagekit/pkg/protocol"

// PatchDocument wraps a Document and queues a protocol patch for every class
// change that alters an element, so the same change can be replayed on a
// connected page.
type PatchDocument struct {
	doc   Document
	queue func(protocol.Patch)
}

// NewPatchDocument returns a PatchDocument over doc sending patches to queue.
func NewPatchDocument(doc Document, queue func(protocol.Patch)) *PatchDocument {
	return &PatchDocument{doc: doc, queue: queue}
}

// ElementByID implements Document.
func (d *PatchDocument) ElementByID(id string) (Element, bool) {
	el, ok := d.doc.ElementByID(id)
	if !ok {
		return nil, false
	}
	return &patchElement{Element: el, queue: d.queue}, true
}

type patchElement struct {
	Element
	queue func(protocol.Patch)
}

func (e *patchElement) AddClass(class string) {
	if e.Element.HasClass(class) {
		return
	}
	e.Element.AddClass(class)
	e.emit(protocol.NewAddClassPatch(e.ID(), class))
}

func (e *patchElement) RemoveClass(class string) {
	if !e.Element.HasClass(class) {
		return
	}
	e.Element.RemoveClass(class)
	e.emit(protocol.NewRemoveClassPatch(e.ID(), class))
}

func (e *patchElement) emit(p protocol.Patch) {
	if e.queue != nil {
		e.queue(p)
	}
}
