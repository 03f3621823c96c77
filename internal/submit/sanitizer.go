package submit

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe markup from owner-entered posting text before it
// reaches durable storage or search
type Sanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

// NewSanitizer builds the posting text policies. Descriptions keep basic
// formatting; every other field is reduced to plain text.
func NewSanitizer() *Sanitizer {
	rich := bluemonday.NewPolicy()
	rich.AllowElements("p", "br", "strong", "b", "em", "i")
	rich.AllowElements("ul", "ol", "li")

	return &Sanitizer{
		rich:  rich,
		plain: bluemonday.StrictPolicy(),
	}
}

// Description sanitizes a posting description, keeping basic formatting
func (s *Sanitizer) Description(text string) string {
	return strings.TrimSpace(s.rich.Sanitize(text))
}

// Plain strips all markup and decodes entities, returning bare text
func (s *Sanitizer) Plain(text string) string {
	out := s.plain.Sanitize(text)
	out = html.UnescapeString(out)
	return strings.TrimSpace(out)
}

// PlainList sanitizes each entry, dropping empties and duplicates while
// preserving first-seen order
func (s *Sanitizer) PlainList(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		clean := s.Plain(item)
		if clean == "" {
			continue
		}
		key := strings.ToLower(clean)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, clean)
	}
	return out
}
