package extract

import "github.com/MeKo-Tech/docscan/internal/document"

// NewNationalID returns the extractor for national identity cards.
func NewNationalID() Extractor {
	return &patternExtractor{
		tag: document.NationalID,
		fields: []fieldRule{
			{document.FieldNIDNumber, chain{
				r(`राष्ट्रिय\s*परिचय\s*(?:पत्र\s*)?(?:नं|नम्बर)\.?[:\s]+([0-9०-९\-]+)`),
				r(`\b(?:National\s+Identity\s+(?:Card\s+)?(?:No\.?|Number)|NID\s*(?:No\.?|Number)?|NIN)[:\s]+([0-9][0-9\-]*)`),
			}, keep},
			{document.FieldFullName, nameRules, keep},
			{document.FieldDateOfBirth, dobRules, genericDate},
		},
	}
}
