package telegram

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// fixEncoding repairs text some clients send as Windows-1251 instead of UTF-8.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	fixed, err := charmap.Windows1251.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}

// sanitizeInput collapses every run of whitespace to a single space.
func sanitizeInput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
