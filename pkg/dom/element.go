package dom

// Element is a page element addressed by id.
type Element interface {
	ID() string
	HasClass(class string) bool
	AddClass(class string)
	RemoveClass(class string)
}

// Document finds elements by id.
type Document interface {
	// ElementByID returns the element with the given id, if any.
	ElementByID(id string) (Element, bool)
}

// Lookup is the result of an element lookup: Found or NotFound.
// The zero value is NotFound with an empty id.
type Lookup struct {
	id string
	el Element
}

// FoundElement returns a Found lookup for el.
func FoundElement(el Element) Lookup {
	return Lookup{id: el.ID(), el: el}
}

// NotFound returns a NotFound lookup for id.
func NotFound(id string) Lookup {
	return Lookup{id: id}
}

// ID returns the id that was looked up.
func (l Lookup) ID() string {
	return l.id
}

// Found returns the element and true, or nil and false.
func (l Lookup) Found() (Element, bool) {
	return l.el, l.el != nil
}

// OK reports whether the element was found.
func (l Lookup) OK() bool {
	return l.el != nil
}

// With calls fn with the element if it was found.
func (l Lookup) With(fn func(Element)) {
	if l.el != nil {
		fn(l.el)
	}
}
