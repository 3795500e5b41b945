package extract

import "github.com/MeKo-Tech/docscan/internal/document"

// NewCitizenship returns the extractor for Nepali citizenship certificates.
// The date of birth keeps the raw capture when it is not a recognizable
// date; the date of issue does not.
func NewCitizenship() Extractor {
	return &patternExtractor{
		tag: document.Citizenship,
		fields: []fieldRule{
			{document.FieldFullName, nameRules, keep},
			{document.FieldDateOfBirth, dobRules, dateOrRaw},
			{document.FieldCitizenshipNumber, chain{
				r(`नागरिकता\s*(?:प्रमाणपत्र\s*)?नं\.?[:\s]+([\p{L}\p{M}\p{N}_\-/]+)`),
				r(`Citizenship\s+(?:Certificate\s+)?No\.?[:\s]+([A-Za-z0-9/-]+)`),
			}, keep},
			{document.FieldDistrict, chain{
				r(`जिल्ला[:\s]+([\p{Devanagari} A-Za-z.]+)`),
				r(`District[:\s]+([A-Za-z .]+)`),
			}, keep},
			{document.FieldAddress, chain{
				r(`(?:स्थायी\s*)?ठेगाना[:\s]+([\p{Devanagari} A-Za-z0-9.,\-]+)`),
				r(`(?:Permanent\s+)?Address[:\s]+([A-Za-z0-9 .,\-]+)`),
			}, keep},
			{document.FieldFatherName, chain{
				r(`बाबुको\s*नाम(?:\s*थर)?[:\s]+([\p{Devanagari} A-Za-z.]+)`),
				r(`Father'?s\s+Name[:\s]+([A-Za-z .]+)`),
			}, keep},
			{document.FieldMotherName, chain{
				r(`आमाको\s*नाम(?:\s*थर)?[:\s]+([\p{Devanagari} A-Za-z.]+)`),
				r(`Mother'?s\s+Name[:\s]+([A-Za-z .]+)`),
			}, keep},
			{document.FieldGender, chain{
				r(`लिङ्ग[:\s]+(\p{Devanagari}+)`),
				r(`\b(?:Sex|Gender)[:\s]+([A-Za-z]+)`),
			}, keep},
			{document.FieldDateOfIssue, chain{
				r(`जारी\s*मिति[:\s]+([0-9०-९\-/]+)`),
				r(`(?:Date of Issue|Issued? Date)[:\s]+([0-9०-९\-/]+)`),
			}, genericDate},
		},
	}
}
