// Package availability decides what to tell a viewer about a movie's
// digital availability.
//
// A Service resolves an IMDb id against the metadata provider, selects
// the earliest qualifying digital release date, and renders the outcome
// as exactly one protocol stream entry: a released or upcoming date, a
// "no match" / "no date listed" notice, or a safe generic error entry.
// Requests for unsupported media types or id shapes yield an empty
// entry list instead. Provider failures never escape the Service; they
// are mapped to the error entry at a single boundary.
package availability
