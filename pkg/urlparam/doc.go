// Package urlparam keeps a page's query string in sync with UI state.
//
// A Synchronizer reads the current address from an Address, merges updates into
// the query parameters and commits the result back without navigating:
//
//	sync := urlparam.NewSynchronizer(loc)
//
//	// /channels?search=test&category=sports
//	sync.Set("search", "new-search", nil)
//	// -> /channels?search=new-search&category=sports
//
//	sync.SetMany([]urlparam.Pair{
//	    {Name: "category", Value: ""},
//	    {Name: "language", Value: "english"},
//	}, nil)
//	// -> /channels?search=new-search&language=english
//
// An empty value removes a parameter. Existing parameters keep their position,
// new ones are appended in the order given, and every call commits exactly
// once. A nil Committer uses the Address's ReplaceState; pass another to send
// the new address elsewhere (see NewPatchCommitter).
//
// Bind layers a typed value over one or more parameters, with optional
// encodings for structs and slices and debouncing for search inputs.
package urlparam
