// Package dates normalizes date tokens found on identity documents into
// the canonical YYYY-MM-DD form.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical output format.
const Layout = "2006-01-02"

// PivotYear splits two-digit years: below it maps to 20YY, otherwise 19YY.
const PivotYear = 30

type numericFormat struct {
	pattern          *regexp.Regexp
	year, month, day int
}

// Generic formats in the order they are tried.
var genericFormats = []numericFormat{
	{regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), 1, 2, 3},
	{regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), 3, 2, 1},
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), 3, 2, 1},
	{regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`), 1, 2, 3},
}

var (
	yymmddRe    = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})$`)
	dayMonthRe  = regexp.MustCompile(`(?i)^(\d{1,2})\s*([A-Z]{3,})\s*(\d{2,4})$`)
	monthByName = buildMonthNames()
)

func buildMonthNames() map[string]time.Month {
	m := make(map[string]time.Month, 24)
	for mon := time.January; mon <= time.December; mon++ {
		full := strings.ToUpper(mon.String())
		m[full] = mon
		m[full[:3]] = mon
	}
	return m
}

// Normalize parses a generic date token (YYYY-MM-DD, DD-MM-YYYY,
// DD/MM/YYYY or YYYY/MM/DD, Devanagari digits allowed). It returns the
// canonical date and true, or "" and false when no format yields a real
// calendar date.
func Normalize(token string) (string, bool) {
	token = strings.TrimSpace(TranslateDigits(token))
	for _, f := range genericFormats {
		m := f.pattern.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		if s, ok := build(atoi(m[f.year]), atoi(m[f.month]), atoi(m[f.day])); ok {
			return s, true
		}
	}
	return "", false
}

// NormalizeOrRaw returns the normalized date, or the trimmed token when it
// cannot be parsed.
func NormalizeOrRaw(token string) string {
	if s, ok := Normalize(token); ok {
		return s
	}
	return strings.TrimSpace(token)
}

// ParseYYMMDD parses a six digit YYMMDD token using PivotYear.
func ParseYYMMDD(token string) (string, bool) {
	m := yymmddRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return "", false
	}
	year := atoi(m[1])
	if year < PivotYear {
		year += 2000
	} else {
		year += 1900
	}
	return build(year, atoi(m[2]), atoi(m[3]))
}

// ParsePassport parses the date forms printed on passports: YYMMDD from the
// machine readable zone, or a day followed by an English month name or
// abbreviation and a four digit year ("13 OCT 2005", "1 January 1990").
func ParsePassport(token string) (string, bool) {
	token = strings.TrimSpace(TranslateDigits(token))
	if token == "" {
		return "", false
	}
	if yymmddRe.MatchString(token) {
		return ParseYYMMDD(token)
	}
	m := dayMonthRe.FindStringSubmatch(token)
	if m == nil || len(m[3]) != 4 {
		return "", false
	}
	mon, ok := monthByName[strings.ToUpper(m[2])]
	if !ok {
		return "", false
	}
	return build(atoi(m[3]), int(mon), atoi(m[1]))
}

// build formats a date after checking it exists on the calendar.
func build(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format(Layout), true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
