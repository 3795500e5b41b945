package extract

import "github.com/MeKo-Tech/docscan/internal/document"

// labelOnlyFields have no MRZ representation.
var labelOnlyFields = map[string]bool{
	document.FieldDateOfIssue:      true,
	document.FieldPlaceOfBirth:     true,
	document.FieldIssuingAuthority: true,
}

// MergePassport combines the MRZ and label candidates into the passport
// field set. MRZ values take precedence, label values fill the gaps.
func MergePassport(mrz, label document.FieldSet) document.FieldSet {
	out := document.NewFieldSetFor(document.Passport)
	for _, key := range out.Keys() {
		if labelOnlyFields[key] {
			out.Set(key, label.Get(key))
			continue
		}
		out.Set(key, mrz.Get(key).OrElse(label.Get(key)))
	}
	return out
}

type passportExtractor struct{}

// NewPassport returns the passport extractor: MRZ decoding merged with the
// label reader.
func NewPassport() Extractor {
	return passportExtractor{}
}

func (passportExtractor) Type() document.Tag { return document.Passport }

func (passportExtractor) Keys() []string { return document.Fields(document.Passport) }

func (passportExtractor) Supported() bool { return true }

func (passportExtractor) Extract(lines []string) document.FieldSet {
	return MergePassport(DecodeMRZ(lines), ExtractLabels(lines))
}
