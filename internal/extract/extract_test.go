package extract

import (
	"testing"

	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/testutil"
	"github.com/MeKo-Tech/docscan/internal/textlines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// values flattens a field set for comparison; absent values become nil.
func values(fs document.FieldSet) map[string]interface{} {
	out := make(map[string]interface{}, fs.Len())
	for _, k := range fs.Keys() {
		if s, ok := fs.Get(k).Get(); ok {
			out[k] = s
		} else {
			out[k] = nil
		}
	}
	return out
}

func TestCitizenshipEnglish(t *testing.T) {
	fs := NewCitizenship().Extract(textlines.Normalize(testutil.CitizenshipText))

	assert.Equal(t, map[string]interface{}{
		"full_name":          "RAM BAHADUR SHARMA",
		"date_of_birth":      "1988-08-15",
		"citizenship_number": "27-01-75-01234",
		"district":           "KATHMANDU",
		"address":            "Kathmandu Metropolitan City-10",
		"father_name":        "HARI PRASAD SHARMA",
		"mother_name":        "SITA SHARMA",
		"gender":             "Male",
		"date_of_issue":      "2006-12-01",
	}, values(fs))
}

func TestCitizenshipNepali(t *testing.T) {
	fs := NewCitizenship().Extract(textlines.Normalize(testutil.CitizenshipNepaliText))

	assert.Equal(t, map[string]interface{}{
		"full_name":          "राम बहादुर शर्मा",
		"date_of_birth":      "2045-05-12",
		"citizenship_number": "२७-०१-७५-०१२३४",
		"district":           "काठमाडौं",
		"address":            "काठमाडौं महानगरपालिका-१०",
		"father_name":        "हरि प्रसाद शर्मा",
		"mother_name":        "सीता शर्मा",
		"gender":             "पुरुष",
		"date_of_issue":      "2063-08-15",
	}, values(fs))
}

func TestCitizenshipDateFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantDOB   interface{}
		wantIssue interface{}
	}{
		{
			name:      "unparsable birth date keeps raw text",
			text:      "Date of Birth: 2045-13-40\nDate of Issue: 2063-13-40",
			wantDOB:   "2045-13-40",
			wantIssue: nil,
		},
		{
			name:      "devanagari raw birth date kept untranslated",
			text:      "जन्म मिति: २०४५-०२-३२",
			wantDOB:   "२०४५-०२-३२",
			wantIssue: nil,
		},
		{
			name:      "missing dates",
			text:      "Full Name: RAM",
			wantDOB:   nil,
			wantIssue: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := values(NewCitizenship().Extract(textlines.Normalize(tt.text)))
			assert.Equal(t, tt.wantDOB, got[document.FieldDateOfBirth])
			assert.Equal(t, tt.wantIssue, got[document.FieldDateOfIssue])
		})
	}
}

func TestCitizenshipNameIgnoresParentLabels(t *testing.T) {
	text := "Father's Name: HARI SHARMA\nName: RAM SHARMA"
	fs := NewCitizenship().Extract(textlines.Normalize(text))

	assert.Equal(t, document.Some("RAM SHARMA"), fs.Get(document.FieldFullName))
	assert.Equal(t, document.Some("HARI SHARMA"), fs.Get(document.FieldFatherName))
}

func TestCitizenshipDevanagariLabelWins(t *testing.T) {
	text := "Name: RAM SHARMA\nनाम: राम शर्मा"
	fs := NewCitizenship().Extract(textlines.Normalize(text))

	assert.Equal(t, document.Some("राम शर्मा"), fs.Get(document.FieldFullName))
}

func TestNationalID(t *testing.T) {
	fs := NewNationalID().Extract(textlines.Normalize(testutil.NationalIDText))

	assert.Equal(t, map[string]interface{}{
		"nid_number":    "123-456-789-0",
		"full_name":     "SITA THAPA",
		"date_of_birth": "1992-04-23",
	}, values(fs))
}

func TestNationalIDInvalidDate(t *testing.T) {
	fs := NewNationalID().Extract([]string{"NID No: 12345", "Date of Birth: 1992-02-30"})

	assert.Equal(t, document.Some("12345"), fs.Get(document.FieldNIDNumber))
	assert.False(t, fs.Get(document.FieldDateOfBirth).IsPresent())
}

func TestBirthCertificate(t *testing.T) {
	fs := NewBirthCertificate().Extract(textlines.Normalize(testutil.BirthCertificateText))

	assert.Equal(t, map[string]interface{}{
		"full_name":           "AASHA KARKI",
		"date_of_birth":       "2018-01-12",
		"registration_number": "2075/123",
	}, values(fs))
}

func TestEnglishLabelWithDevanagariDigits(t *testing.T) {
	tests := []struct {
		name      string
		extractor Extractor
		text      string
		field     string
		want      interface{}
	}{
		{"citizenship birth date", NewCitizenship(), "Date of Birth: २०४५-०५-१२", document.FieldDateOfBirth, "2045-05-12"},
		{"citizenship issue date", NewCitizenship(), "Date of Issue: २०६३/०८/१५", document.FieldDateOfIssue, "2063-08-15"},
		{"national id birth date", NewNationalID(), "DOB: १५/०८/१९८८", document.FieldDateOfBirth, "1988-08-15"},
		{"birth certificate birth date", NewBirthCertificate(), "Date of Birth (BS): २०७५-०१-१५", document.FieldDateOfBirth, "2075-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := values(tt.extractor.Extract(textlines.Normalize(tt.text)))
			assert.Equal(t, tt.want, got[tt.field])
		})
	}
}

func TestPatternExtractorsOnEmptyInput(t *testing.T) {
	for _, e := range []Extractor{NewCitizenship(), NewNationalID(), NewBirthCertificate(), NewPassport()} {
		t.Run(string(e.Type()), func(t *testing.T) {
			fs := e.Extract(nil)
			assert.Equal(t, document.Fields(e.Type()), fs.Keys())
			assert.True(t, fs.AllAbsent())
			assert.True(t, e.Supported())
		})
	}
}

func TestUnsupported(t *testing.T) {
	u := NewUnsupported(document.PAN)

	assert.Equal(t, document.PAN, u.Type())
	assert.False(t, u.Supported())
	assert.Empty(t, u.Keys())
	assert.Equal(t, 0, u.Extract([]string{"PAN: 123"}).Len())
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	for _, tag := range document.AllTags() {
		e, ok := reg.Lookup(tag)
		require.True(t, ok, tag)
		assert.Equal(t, tag, e.Type())
		assert.Equal(t, document.Fields(tag), e.Keys())
	}

	_, ok := reg.Lookup(document.Unknown)
	assert.False(t, ok)
	assert.Len(t, reg.Tags(), len(document.AllTags()))
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := NewRegistry(NewUnsupported(document.Passport))
	e, _ := reg.Lookup(document.Passport)
	assert.False(t, e.Supported())

	reg.Register(NewPassport())
	e, _ = reg.Lookup(document.Passport)
	assert.True(t, e.Supported())
}
