package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText lowercases and strips diacritics so Portuguese variants of
// the same category or location fold together ("Informática" == "informatica").
func NormalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(strings.TrimSpace(result))
}

// SameTerm reports whether two category/location strings are the same term
// modulo case and accents.
func SameTerm(a, b string) bool {
	return NormalizeText(a) == NormalizeText(b)
}
