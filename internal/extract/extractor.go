// Package extract turns normalized OCR lines into per-document field sets.
package extract

import (
	"sort"
	"sync"

	"github.com/MeKo-Tech/docscan/internal/document"
)

// Extractor produces the field set for one document type. Extract never
// fails: fields that cannot be found are absent.
type Extractor interface {
	Type() document.Tag
	Keys() []string
	Supported() bool
	Extract(lines []string) document.FieldSet
}

// Registry maps document tags to extractors. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	extractors map[document.Tag]Extractor
}

// NewRegistry returns a registry holding the given extractors.
func NewRegistry(extractors ...Extractor) *Registry {
	reg := &Registry{extractors: make(map[document.Tag]Extractor)}
	for _, e := range extractors {
		reg.Register(e)
	}
	return reg
}

// DefaultRegistry returns a registry with every built-in extractor,
// including the placeholders for types without a field contract.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewCitizenship(),
		NewPassport(),
		NewNationalID(),
		NewBirthCertificate(),
		NewUnsupported(document.DrivingLicense),
		NewUnsupported(document.PAN),
	)
}

// Register adds or replaces the extractor for e.Type().
func (reg *Registry) Register(e Extractor) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.extractors[e.Type()] = e
}

// Lookup returns the extractor for tag.
func (reg *Registry) Lookup(tag document.Tag) (Extractor, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	e, ok := reg.extractors[tag]
	return e, ok
}

// Tags returns the registered tags sorted by name.
func (reg *Registry) Tags() []document.Tag {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	tags := make([]document.Tag, 0, len(reg.extractors))
	for t := range reg.extractors {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
