package textlines

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanOptions controls per-line cleanup of OCR text.
type CleanOptions struct {
	NormalizeForm      string // "NFC" (default), "NFKC", "NFD", "NFKD", "none" to disable
	RemoveControlChars bool   // drop non-printable control characters
	RemoveZeroWidth    bool   // drop zero-width spaces and joiners
	ReplaceTypography  bool   // map typographic dashes and spaces to ASCII
}

// DefaultCleanOptions returns the cleanup applied by Normalize.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		NormalizeForm:      "NFC",
		RemoveControlChars: true,
		RemoveZeroWidth:    true,
		ReplaceTypography:  true,
	}
}

// CleanLine applies opts to a single line. It does not trim.
func CleanLine(s string, opts CleanOptions) string {
	if s == "" {
		return s
	}
	if opts.RemoveZeroWidth {
		s = removeZeroWidth(s)
	}
	if opts.RemoveControlChars {
		s = removeControlChars(s)
	}
	if opts.ReplaceTypography {
		s = typographyReplacer.Replace(s)
	}
	return applyNormalization(s, opts.NormalizeForm)
}

func applyNormalization(s, form string) string {
	switch strings.ToUpper(form) {
	case "NFC", "":
		return norm.NFC.String(s)
	case "NFKC":
		return norm.NFKC.String(s)
	case "NFD":
		return norm.NFD.String(s)
	case "NFKD":
		return norm.NFKD.String(s)
	}
	return s
}

var typographyReplacer = strings.NewReplacer(
	"\u2010", "-", // hyphen
	"\u2011", "-", // non-breaking hyphen
	"\u2012", "-", // figure dash
	"\u2013", "-", // en dash
	"\u2014", "-",
	"\u2212", "-", // minus sign
	"\u00A0", " ", // no-break space
	"\u2009", " ",
	"\u202F", " ",
)

func removeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// removeZeroWidth removes zero-width characters common in OCR noise.
// ZWJ and ZWNJ are kept when they sit between two Devanagari letters,
// where they select conjunct forms.
func removeZeroWidth(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		switch r {
		case '\u200B', '\uFEFF', '\u2060':
			continue
		case '\u200C', '\u200D':
			if i > 0 && i+1 < len(runes) && isDevanagari(runes[i-1]) && isDevanagari(runes[i+1]) {
				b.WriteRune(r)
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDevanagari(r rune) bool {
	return unicode.Is(unicode.Devanagari, r)
}
