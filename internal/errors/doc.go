// Package errors provides structured, actionable error messages for pagekit.
//
// Library packages return plain errors (sentinels, typed errors, %w wrapping).
// This package is for the edges: configuration loading and the CLI, where an
// error should explain what went wrong and how to fix it.
//
// # Error Categories
//
// Errors are organized into the same taxonomy the page helpers use for
// diagnostics:
//   - absence: a missing element or storage key
//   - malformed: stored data or a response body that is not valid JSON
//   - transport: network failures and non-success HTTP statuses
//   - storage: write, quota and delete failures of a storage surface
//   - config: pagekit.json problems
//   - cli: bad command-line input
//
// # Usage
//
//	err := errors.New("E030").
//	    WithDetail("No pagekit.json found in " + dir).
//	    WithSuggestion("Run 'pagekit config init' to write one")
//
//	fmt.Println(err.Format())
package errors
