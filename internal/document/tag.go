package document

import "strings"

// Tag identifies the kind of identity document a scan belongs to.
type Tag string

// Supported document tags.
const (
	Citizenship      Tag = "citizenship"
	Passport         Tag = "passport"
	NationalID       Tag = "national_id"
	BirthCertificate Tag = "birth_certificate"
	DrivingLicense   Tag = "driving_license"
	PAN              Tag = "pan"
	Unknown          Tag = "unknown"
)

// AllTags lists every known tag except Unknown, in display order.
func AllTags() []Tag {
	return []Tag{Citizenship, Passport, NationalID, BirthCertificate, DrivingLicense, PAN}
}

var tagAliases = map[string]Tag{
	"citizenship":       Citizenship,
	"nagrita":           Citizenship,
	"passport":          Passport,
	"national_id":       NationalID,
	"nid":               NationalID,
	"birth_certificate": BirthCertificate,
	"driving_license":   DrivingLicense,
	"driving_licence":   DrivingLicense,
	"pan":               PAN,
	"unknown":           Unknown,
}

// ParseTag maps a caller supplied type name to a Tag. Matching ignores case
// and surrounding whitespace; hyphens and spaces are treated as underscores.
// Unrecognized names map to Unknown.
func ParseTag(s string) Tag {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if tag, ok := tagAliases[key]; ok {
		return tag
	}
	return Unknown
}

// IsKnown reports whether t is one of the tags returned by AllTags.
func (t Tag) IsKnown() bool {
	for _, known := range AllTags() {
		if t == known {
			return true
		}
	}
	return false
}

func (t Tag) String() string {
	return string(t)
}
