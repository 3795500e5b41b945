package extract

import (
	"regexp"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/dates"
	"github.com/MeKo-Tech/docscan/internal/document"
)

// rule captures one group of a pattern.
type rule struct {
	pattern *regexp.Regexp
	group   int
}

func r(expr string) rule {
	return rule{pattern: regexp.MustCompile(expr), group: 1}
}

// chain is an ordered list of rules; the first non-empty capture wins.
type chain []rule

func (c chain) find(text string) document.Value {
	for _, ru := range c {
		m := ru.pattern.FindStringSubmatch(text)
		if m == nil || ru.group >= len(m) {
			continue
		}
		if v := document.NonEmpty(m[ru.group]); v.IsPresent() {
			return v
		}
	}
	return document.None()
}

// postFunc turns a captured value into the stored value.
type postFunc func(string) document.Value

func keep(s string) document.Value { return document.NonEmpty(s) }

// genericDate stores the canonical date or nothing.
func genericDate(s string) document.Value {
	if d, ok := dates.Normalize(s); ok {
		return document.Some(d)
	}
	return document.None()
}

// dateOrRaw stores the canonical date, falling back to the raw capture.
func dateOrRaw(s string) document.Value {
	return document.NonEmpty(dates.NormalizeOrRaw(s))
}

type fieldRule struct {
	key   string
	rules chain
	post  postFunc
}

// patternExtractor runs one chain per declared field over the joined
// lines.
type patternExtractor struct {
	tag    document.Tag
	fields []fieldRule
}

func (p *patternExtractor) Type() document.Tag { return p.tag }

func (p *patternExtractor) Keys() []string { return document.Fields(p.tag) }

func (p *patternExtractor) Supported() bool { return true }

func (p *patternExtractor) Extract(lines []string) document.FieldSet {
	text := strings.Join(lines, "\n")
	fs := document.NewFieldSetFor(p.tag)
	for _, f := range p.fields {
		v := f.rules.find(text)
		if s, ok := v.Get(); ok && f.post != nil {
			v = f.post(s)
		}
		fs.Set(f.key, v)
	}
	return fs
}

// Label rules shared between document types. English labels are anchored
// to the start of a line so that "Father's Name" does not satisfy "Name".
var (
	nameRules = chain{
		r(`(?m)^[ \t]*(?:पूरा\s*)?नाम(?:\s*थर)?[:\s]+([\p{Devanagari} A-Za-z.]+)`),
		r(`(?m)^[ \t]*(?:Full\s+)?Name[:\s]+([A-Za-z .]+)`),
	}
	dobRules = chain{
		r(`जन्म\s*मिति[:\s]+([0-9०-९\-/]+)`),
		r(`(?:Date of Birth|DOB)(?:\s*\((?:AD|BS)\))?[:\s]+([0-9०-९\-/]+)`),
	}
)
