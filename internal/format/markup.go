package format

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"mtlist/internal/servers"
)

const (
	ellipsis = "…"

	addressMax     = 25
	addressVisible = 23
)

// Span wraps already escaped visible text in a hover span whose title
// carries the already escaped full text.
func Span(visible, title string) string {
	return `<span title="` + title + `">` + visible + `</span>`
}

// FormatAddress renders host and port for display. IPv6 hosts are bracketed,
// long hosts are shortened with the full address:port available on hover,
// and the port is only shown when it differs from the default.
func FormatAddress(address string, port int) string {
	host := address
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	suffix := ""
	if port != servers.DefaultPort {
		suffix = ":" + strconv.Itoa(port)
	}

	if utf8.RuneCountInString(host) <= addressMax {
		return Escape(host + suffix)
	}

	short := string([]rune(host)[:addressVisible]) + ellipsis
	full := host + ":" + strconv.Itoa(port)
	return Span(Escape(short), Escape(full)) + Escape(suffix)
}

// TruncateWithTooltip escapes text and, when the escaped form is longer
// than maxLen characters, shortens it to maxLen-2 characters plus an
// ellipsis with the full text on hover. Entities are never cut in half.
func TruncateWithTooltip(text string, maxLen int) string {
	escaped := Escape(text)
	if utf8.RuneCountInString(escaped) <= maxLen {
		return escaped
	}
	keep := maxLen - 2
	if keep < 0 {
		keep = 0
	}
	return Span(cutEscaped(escaped, keep)+ellipsis, escaped)
}

// cutEscaped returns at most n characters of escaped text, backing off to
// the start of an entity the cut would split.
func cutEscaped(escaped string, n int) string {
	runes := []rune(escaped)
	if n >= len(runes) {
		return escaped
	}
	cut := runes[:n]
	if amp := lastIndexRune(cut, '&'); amp >= 0 && lastIndexRune(cut[amp:], ';') < 0 {
		cut = cut[:amp]
	}
	return string(cut)
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// NameList renders a labelled, counted list of names, one per line.
func NameList(label string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="mts_hover_list">`)
	b.WriteString(Escape(label))
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(len(items)))
	b.WriteString(")")
	for _, item := range items {
		b.WriteString("<br>")
		b.WriteString(Escape(item))
	}
	b.WriteString("</div>")
	return b.String()
}

// SafeURL returns the escaped link target when it is an absolute http(s)
// URL and the empty string otherwise.
func SafeURL(raw string) string {
	u, errParse := url.Parse(strings.TrimSpace(raw))
	if errParse != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return Escape(u.String())
}

// Ping renders a round trip time given in seconds as whole milliseconds,
// after rounding the seconds to three decimals.
func Ping(seconds float64) string {
	ms := math.Round(seconds * 1000)
	return strconv.FormatFloat(ms, 'f', 0, 64)
}
