// Package classify guesses a document type from keywords in OCR text.
package classify

import (
	"strings"

	"github.com/MeKo-Tech/docscan/internal/document"
	"golang.org/x/text/cases"
)

// Rule maps any of its keywords to a document tag.
type Rule struct {
	Tag      document.Tag `json:"document_type"`
	Keywords []string     `json:"keywords"`
}

// rules are evaluated in order; the first rule with a matching keyword wins
// no matter where in the text the keyword appears.
var rules = []Rule{
	{Tag: document.Citizenship, Keywords: []string{"citizenship", "nagrita"}},
	{Tag: document.Passport, Keywords: []string{"passport"}},
	{Tag: document.DrivingLicense, Keywords: []string{"driving licence", "driving license"}},
	{Tag: document.BirthCertificate, Keywords: []string{"birth certificate"}},
	{Tag: document.NationalID, Keywords: []string{"national id", "nid"}},
}

// Match describes why a text was classified the way it was.
type Match struct {
	Tag     document.Tag `json:"document_type"`
	Keyword string       `json:"keyword,omitempty"`
}

// Rules returns a copy of the ordered classification rules.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Tag: r.Tag, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Classify returns the document tag for text, or document.Unknown.
func Classify(text string) document.Tag {
	return Explain(text).Tag
}

// Explain classifies text and reports the keyword that decided it.
// Keywords match as case-insensitive substrings, so "nid" also fires
// inside longer words.
func Explain(text string) Match {
	folded := cases.Fold().String(text)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(folded, kw) {
				return Match{Tag: r.Tag, Keyword: kw}
			}
		}
	}
	return Match{Tag: document.Unknown}
}
