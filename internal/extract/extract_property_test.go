package extract

import (
	"testing"

	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/textlines"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// fragments are label and value lines seen on real documents.
var fragments = []string{
	"SURNAME", "SHARMA", "GIVEN NAMES", "RAM", "DOB", "13 OCT 2005",
	"SEX", "M", "PASSPORT NO", "PA1234567", "DATE OF ISSUE", "991231",
	"Name: SITA", "Date of Birth: 2001-02-03", "NID: 123-45",
	"नाम: राम", "जन्म मिति: २०४५-०५-१२", "Citizenship No: 12-34",
	mrzLine1, mrzLine2, mrzNoiseLine, "",
}

// documentLines generates indexes into fragments.
func documentLines() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(fragments)-1))
}

func toLines(idx []int) []string {
	lines := make([]string, len(idx))
	for i, n := range idx {
		lines[i] = fragments[n]
	}
	return lines
}

func TestExtractorProperties(t *testing.T) {
	reg := DefaultRegistry()
	properties := gopter.NewProperties(nil)

	properties.Property("field sets carry exactly the declared keys", prop.ForAll(
		func(idx []int) bool {
			lines := toLines(idx)
			for _, tag := range reg.Tags() {
				e, _ := reg.Lookup(tag)
				if !assert.ObjectsAreEqual(document.Fields(tag), e.Extract(lines).Keys()) {
					return false
				}
			}
			return true
		},
		documentLines(),
	))

	properties.Property("extraction is deterministic", prop.ForAll(
		func(idx []int) bool {
			lines := toLines(idx)
			for _, tag := range reg.Tags() {
				e, _ := reg.Lookup(tag)
				if !assert.ObjectsAreEqual(values(e.Extract(lines)), values(e.Extract(lines))) {
					return false
				}
			}
			return true
		},
		documentLines(),
	))

	properties.Property("arbitrary text never breaks the key set", prop.ForAll(
		func(raw string) bool {
			lines := textlines.Normalize(raw)
			fs := NewPassport().Extract(lines)
			return fs.Len() == len(document.Fields(document.Passport))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
