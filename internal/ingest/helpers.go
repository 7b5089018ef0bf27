package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// adrPolicy keeps only the class-tagged spans of the adr_address microformat.
var adrPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowAttrs("class").OnElements("span")
	return p
}()

// normalizeSpace collapses multiple spaces into one and trims the string.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanDisplay trims a source display string and drops invalid UTF-8.
// The content is otherwise kept as returned.
func cleanDisplay(s string) string {
	return strings.TrimSpace(sanitizeUTF8(s))
}

// sanitizeUTF8 removes invalid UTF-8 byte sequences.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// copyList returns an independent copy; nil stays nil.
func copyList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
