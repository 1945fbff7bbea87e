// Package value defines the fixed value domain for stored entries.
//
// Values are tagged: null, bool, number, string, ordered list, or
// string-keyed map. The canonical textual form is JSON with map keys
// sorted and number literals preserved verbatim, so Encode followed by
// Decode reproduces a structurally equal value.
package value
