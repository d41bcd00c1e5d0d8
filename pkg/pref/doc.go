// Package pref reads and writes small JSON values in a key/value storage
// surface such as the browser's localStorage.
//
// Every operation tolerates failure: Get falls back to a default, Set and
// Remove report success as a bool, and each failure is logged once.
//
//	store := pref.NewStore(pref.NewMemorySurface(0))
//
//	store.Set(ctx, "view", Settings{Compact: true})
//	settings := pref.Get(ctx, store, "view", Settings{})
//
//	// Typed, keyed wrapper
//	theme := pref.New(store, "theme", "light")
//	theme.Set(ctx, "dark")
//
// Surfaces are interchangeable: MemorySurface for tests and servers,
// FileSurface for the CLI, RedisSurface and S3Surface for shared state, and
// the live browser tab in package browser.
package pref
