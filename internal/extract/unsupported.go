package extract

import "github.com/MeKo-Tech/docscan/internal/document"

// Unsupported stands in for document types that are recognized but have no
// field contract yet. It always returns an empty field set.
type Unsupported struct {
	tag document.Tag
}

// NewUnsupported returns a placeholder extractor for tag.
func NewUnsupported(tag document.Tag) *Unsupported {
	return &Unsupported{tag: tag}
}

func (u *Unsupported) Type() document.Tag { return u.tag }

func (u *Unsupported) Keys() []string { return []string{} }

func (u *Unsupported) Supported() bool { return false }

func (u *Unsupported) Extract([]string) document.FieldSet {
	return document.NewFieldSet()
}
