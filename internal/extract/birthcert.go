package extract

import "github.com/MeKo-Tech/docscan/internal/document"

// NewBirthCertificate returns the extractor for birth registration
// certificates. The child's name label is preferred over a bare name label.
func NewBirthCertificate() Extractor {
	names := append(chain{
		r(`(?:बच्चाको|शिशुको)\s*नाम(?:\s*थर)?[:\s]+([\p{Devanagari} A-Za-z.]+)`),
		r(`(?m)^[ \t]*(?:Child'?s\s+Name|Name\s+of\s+(?:the\s+)?Child)[:\s]+([A-Za-z .]+)`),
	}, nameRules...)

	return &patternExtractor{
		tag: document.BirthCertificate,
		fields: []fieldRule{
			{document.FieldFullName, names, keep},
			{document.FieldDateOfBirth, dobRules, genericDate},
			{document.FieldRegistrationNumber, chain{
				r(`दर्ता\s*(?:नं|नम्बर)\.?[:\s]+([0-9०-९\-/]+)`),
				r(`Registration\s+(?:No\.?|Number)[:\s]+([A-Za-z0-9\-/]+)`),
			}, keep},
		},
	}
}
