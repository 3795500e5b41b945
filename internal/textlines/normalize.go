// Package textlines turns raw OCR output into clean, ordered lines.
package textlines

import (
	"strings"
)

// lineBreaks covers CRLF, CR, LF and the Unicode line separators OCR
// engines occasionally emit.
var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\f", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// Normalize splits raw into trimmed, non-empty lines in their original
// order, cleaning each line with DefaultCleanOptions. Empty input yields an
// empty, non-nil slice.
func Normalize(raw string) []string {
	return NormalizeWith(raw, DefaultCleanOptions())
}

// NormalizeWith is Normalize with explicit cleanup options.
func NormalizeWith(raw string, opts CleanOptions) []string {
	lines := []string{}
	if raw == "" {
		return lines
	}
	for _, line := range strings.Split(lineBreaks.Replace(raw), "\n") {
		line = strings.TrimSpace(CleanLine(line, opts))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Join reassembles lines into newline separated text.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}
