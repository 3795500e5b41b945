package dates

import "strings"

var devanagariDigits = strings.NewReplacer(
	"०", "0", "१", "1", "२", "2", "३", "3", "४", "4",
	"५", "5", "६", "6", "७", "7", "८", "8", "९", "9",
)

// TranslateDigits replaces Devanagari digits with their ASCII equivalents.
// All other characters are left untouched.
func TranslateDigits(s string) string {
	return devanagariDigits.Replace(s)
}
