// Package util provides small helpers shared by the storefront packages.
package util

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NewID returns a random v4 UUID string for products imported without an id.
func NewID() string {
	return uuid.NewString()
}

// FoldText lower-cases s and strips combining marks, so "Pão" becomes "pao".
func FoldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount the way the storefront shows prices, e.g. "R$ 10,50".
func FormatBRL(v float64) string {
	return brl.Sprintf("R$ %.2f", v)
}
