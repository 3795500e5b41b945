package extract

import (
	"regexp"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/document"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type passportLabel struct {
	field  string
	labels []string
}

// passportLabels lists the printed labels of the passport data page.
var passportLabels = []passportLabel{
	{document.FieldSurname, []string{"SURNAME"}},
	{document.FieldGivenNames, []string{"GIVEN NAMES", "GIVEN NAME"}},
	{document.FieldPassportNumber, []string{"PASSPORT NO", "PASSPORT NUMBER"}},
	{document.FieldNationality, []string{"NATIONALITY"}},
	{document.FieldDateOfBirth, []string{"DATE OF BIRTH", "DOB"}},
	{document.FieldDateOfIssue, []string{"DATE OF ISSUE"}},
	{document.FieldDateOfExpiry, []string{"DATE OF EXPIRY"}},
	{document.FieldPlaceOfBirth, []string{"PLACE OF BIRTH"}},
	{document.FieldIssuingAuthority, []string{"ISSUING AUTHORITY", "AUTHORITY"}},
	{document.FieldPersonalNumber, []string{"PERSONAL NO", "PERSONAL NUMBER"}},
	{document.FieldSex, []string{"SEX"}},
	{document.FieldCountryCode, []string{"COUNTRY CODE"}},
}

var labelCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// labelField returns the field whose label starts the upper-cased line.
func labelField(upper string) (string, bool) {
	for _, pl := range passportLabels {
		for _, l := range pl.labels {
			if strings.HasPrefix(upper, l) {
				return pl.field, true
			}
		}
	}
	return "", false
}

// ExtractLabels reads the human readable passport page. A line starting
// with a known label opens its field; the value is the first later line
// that is neither a label nor already taken by an earlier label, so a value
// below stacked labels belongs to the first of them. When a label occurs
// more than once the last occurrence wins.
func ExtractLabels(lines []string) document.FieldSet {
	upper := cases.Upper(language.Und)
	isLabel := make([]bool, len(lines))
	fields := make([]string, len(lines))
	for i, line := range lines {
		fields[i], isLabel[i] = labelField(upper.String(line))
	}

	fs := document.NewFieldSetFor(document.Passport)
	taken := make([]bool, len(lines))
	for i := range lines {
		if !isLabel[i] {
			continue
		}
		if j, ok := nextValue(lines, isLabel, taken, i+1); ok {
			taken[j] = true
			fs.Set(fields[i], validateLabel(fields[i], lines[j]))
		}
	}
	return fs
}

func nextValue(lines []string, isLabel, taken []bool, from int) (int, bool) {
	for j := from; j < len(lines); j++ {
		if lines[j] != "" && !isLabel[j] && !taken[j] {
			return j, true
		}
	}
	return 0, false
}

func validateLabel(field, value string) document.Value {
	switch field {
	case document.FieldDateOfBirth, document.FieldDateOfIssue, document.FieldDateOfExpiry:
		return passportDate(value)
	case document.FieldSex:
		if value == "M" || value == "F" {
			return document.Some(value)
		}
	case document.FieldCountryCode:
		if labelCodeRe.MatchString(value) {
			return document.Some(value)
		}
	case document.FieldPassportNumber:
		if passportNumberRe.MatchString(value) {
			return document.Some(value)
		}
	case document.FieldPersonalNumber:
		if allDigits(value) {
			return document.Some(value)
		}
	default:
		return cleanMRZ(value)
	}
	return document.None()
}
