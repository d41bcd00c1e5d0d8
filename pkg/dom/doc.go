// Package dom looks up page elements by id without failing on absence and
// toggles their CSS classes.
//
// A lookup returns a Lookup, which is either Found or NotFound. Class and
// visibility helpers accept either and do nothing for NotFound, so page code
// can run against markup that lacks some elements:
//
//	acc := dom.NewAccessor(doc)
//	tog := dom.NewToggler("hidden")
//
//	tog.SetVisibility(acc.Get("spinner", true), false)
//	tog.ToggleClasses(acc.Get("row-7", false), "active", "inactive", selected)
//
// Documents come from a parsed HTML page (HTMLDocument), a live browser tab
// (package browser), or any Document wrapped by PatchDocument, which records
// each class change as a protocol patch.
package dom
