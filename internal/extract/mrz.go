package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/MeKo-Tech/docscan/internal/dates"
	"github.com/MeKo-Tech/docscan/internal/document"
)

const (
	mrzFiller     = "<"
	mrzLineLength = 44
	mrzMinLength  = 20
	mrzMinFillers = 5
)

var (
	mrzCharsetRe     = regexp.MustCompile(`^[A-Z0-9<]{20,}$`)
	countryCodeRe    = regexp.MustCompile(`^[A-Z]{3}$`)
	passportNumberRe = regexp.MustCompile(`^[A-Z]{1,2}\d{6,8}\b`)
)

// mrzFields are the passport keys representable in a TD3 machine readable
// zone.
var mrzFields = []string{
	document.FieldCountryCode,
	document.FieldSurname,
	document.FieldGivenNames,
	document.FieldPassportNumber,
	document.FieldNationality,
	document.FieldDateOfBirth,
	document.FieldSex,
	document.FieldDateOfExpiry,
	document.FieldPersonalNumber,
}

// IsMRZLine reports whether line looks like a machine readable zone line:
// at least 20 characters of A-Z, 0-9 and filler, with more than five
// fillers.
func IsMRZLine(line string) bool {
	return len(line) >= mrzMinLength &&
		strings.Count(line, mrzFiller) > mrzMinFillers &&
		mrzCharsetRe.MatchString(line)
}

// FindMRZ returns the last two MRZ shaped lines, each cut to 44 characters.
func FindMRZ(lines []string) (line1, line2 string, ok bool) {
	var candidates []string
	for _, l := range lines {
		if IsMRZLine(l) {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) < 2 {
		return "", "", false
	}
	line1 = truncate(candidates[len(candidates)-2], mrzLineLength)
	line2 = truncate(candidates[len(candidates)-1], mrzLineLength)
	return line1, line2, true
}

// DecodeMRZ decodes a TD3 machine readable zone from lines. Each field is
// validated on its own; a field that is out of range or malformed is
// absent without affecting the others. Without an MRZ every field is
// absent.
func DecodeMRZ(lines []string) document.FieldSet {
	fs := document.NewFieldSet(mrzFields...)
	line1, line2, ok := FindMRZ(lines)
	if !ok {
		return fs
	}

	if cc := slice(line1, 2, 5); countryCodeRe.MatchString(cc) {
		fs.Set(document.FieldCountryCode, cleanMRZ(cc))
	}
	names := strings.Split(slice(line1, 5, len(line1)), "<<")
	fs.Set(document.FieldSurname, cleanMRZ(names[0]))
	if len(names) > 1 {
		fs.Set(document.FieldGivenNames, cleanMRZ(names[1]))
	}

	if num := slice(line2, 0, 9); passportNumberRe.MatchString(num) {
		fs.Set(document.FieldPassportNumber, cleanMRZ(num))
	}
	if nat := slice(line2, 10, 13); countryCodeRe.MatchString(nat) {
		fs.Set(document.FieldNationality, document.Some(nat))
	}
	fs.Set(document.FieldDateOfBirth, passportDate(slice(line2, 13, 19)))
	if sex := slice(line2, 20, 21); sex == "M" || sex == "F" {
		fs.Set(document.FieldSex, document.Some(sex))
	}
	fs.Set(document.FieldDateOfExpiry, passportDate(slice(line2, 21, 27)))
	if pn := slice(line2, 28, 42); allDigits(pn) {
		fs.Set(document.FieldPersonalNumber, document.Some(pn))
	}
	return fs
}

// slice returns s[from:to] clamped to the length of s.
func slice(s string, from, to int) string {
	if to > len(s) {
		to = len(s)
	}
	if from >= to {
		return ""
	}
	return s[from:to]
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// cleanMRZ turns fillers and line breaks into spaces and trims.
func cleanMRZ(s string) document.Value {
	s = strings.NewReplacer(mrzFiller, " ", "\n", " ").Replace(s)
	return document.NonEmpty(s)
}

func passportDate(s string) document.Value {
	if d, ok := dates.ParsePassport(s); ok {
		return document.Some(d)
	}
	return document.None()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}
