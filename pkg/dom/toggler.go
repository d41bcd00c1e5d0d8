package dom

// DefaultHiddenClass is the class that hides an element.
const DefaultHiddenClass = "hidden"

// Toggler applies class changes to looked-up elements. NotFound lookups are
// ignored.
type Toggler struct {
	HiddenClass string
}

// NewToggler returns a Toggler using hiddenClass, or DefaultHiddenClass when
// empty.
func NewToggler(hiddenClass string) *Toggler {
	if hiddenClass == "" {
		hiddenClass = DefaultHiddenClass
	}
	return &Toggler{HiddenClass: hiddenClass}
}

// ToggleClasses adds ifTrue and removes ifFalse when cond holds, and the
// reverse otherwise.
func (t *Toggler) ToggleClasses(l Lookup, ifTrue, ifFalse string, cond bool) {
	l.With(func(el Element) {
		add, remove := ifTrue, ifFalse
		if !cond {
			add, remove = ifFalse, ifTrue
		}
		el.AddClass(add)
		el.RemoveClass(remove)
	})
}

// SetVisibility removes the hidden class when visible and adds it otherwise.
func (t *Toggler) SetVisibility(l Lookup, visible bool) {
	hidden := t.hiddenClass()
	l.With(func(el Element) {
		if visible {
			el.RemoveClass(hidden)
		} else {
			el.AddClass(hidden)
		}
	})
}

// SetClass adds class when on and removes it otherwise.
func (t *Toggler) SetClass(l Lookup, class string, on bool) {
	l.With(func(el Element) {
		if on {
			el.AddClass(class)
		} else {
			el.RemoveClass(class)
		}
	})
}

func (t *Toggler) hiddenClass() string {
	if t == nil || t.HiddenClass == "" {
		return DefaultHiddenClass
	}
	return t.HiddenClass
}
