// Package format turns raw directory values into escaped, human readable
// markup fragments. Every function here is pure.
package format

import (
	"strconv"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape replaces & < > and " with their entities in a single pass.
func Escape(text string) string {
	return escaper.Replace(text)
}

// EscapeValue escapes strings, passes numbers through in decimal form and
// renders anything else as the empty string.
func EscapeValue(v any) string {
	switch t := v.(type) {
	case string:
		return Escape(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
