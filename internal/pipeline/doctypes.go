package pipeline

import (
	"strings"

	"github.com/MeKo-Tech/docscan/internal/classify"
	"github.com/MeKo-Tech/docscan/internal/document"
)

// AutoType asks for classification instead of naming a document type.
const AutoType = "auto"

// ResolveType maps a caller supplied document type name. Empty, "auto" and
// "unknown" resolve to document.Unknown, which Process classifies; any
// other unrecognized name is rejected.
func ResolveType(name string) (document.Tag, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, AutoType) {
		return document.Unknown, true
	}
	tag := document.ParseTag(name)
	if tag == document.Unknown && !strings.EqualFold(name, string(document.Unknown)) {
		return document.Unknown, false
	}
	return tag, true
}

// TypeInfo describes one document type the pipeline can handle.
type TypeInfo struct {
	Type      document.Tag `json:"document_type"      yaml:"document_type"`
	Supported bool         `json:"supported"          yaml:"supported"`
	Fields    []string     `json:"fields"             yaml:"fields"`
	Keywords  []string     `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// DocumentTypes lists the registry's types with their fields and the
// classifier keywords that select them.
func (p *Pipeline) DocumentTypes() []TypeInfo {
	keywords := make(map[document.Tag][]string)
	for _, rule := range classify.Rules() {
		keywords[rule.Tag] = append(keywords[rule.Tag], rule.Keywords...)
	}

	tags := p.registry.Tags()
	out := make([]TypeInfo, 0, len(tags))
	for _, tag := range tags {
		ext, _ := p.registry.Lookup(tag)
		out = append(out, TypeInfo{
			Type:      tag,
			Supported: ext.Supported(),
			Fields:    ext.Keys(),
			Keywords:  keywords[tag],
		})
	}
	return out
}
