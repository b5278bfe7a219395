package mapping

import (
	"fmt"
	"sort"
	"strings"
)

// TextColumn is the implicit column holding free text when a section
// enables NLP extraction.
const TextColumn = "body"

// LinkKind distinguishes the two flavors of object-link target.
type LinkKind int

const (
	// LinkParameterized targets a row-scoped resource: the template carries
	// at least one {column} placeholder and its concept type is the leading
	// token before the first underscore.
	LinkParameterized LinkKind = iota

	// LinkFixed targets a shared ontology reference: the template has no
	// placeholders and the literal text is both the object identifier and
	// its concept type (e.g. one LungCancer node reused by every row).
	LinkFixed
)

// Link is one compiled object-link binding. Compilation happens once at
// config load; the engine never re-detects the kind per row.
type Link struct {
	Property string
	Template string
	Kind     LinkKind

	// Concept is the derived concept type of the link target.
	Concept string
}

// Section is one mapping section: one tabular source mapped onto the graph.
type Section struct {
	Name string `yaml:"-" json:"-"`

	// File is the tabular source path, relative to the data directory.
	// Doublestar glob patterns are allowed for sharded exports.
	File string `yaml:"file" json:"file"`

	// Subject is the identifier template for the row subject.
	Subject string `yaml:"subject" json:"subject"`

	// Type, when set, adds a type assertion and display label per row.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// DatatypeProps binds ontology property names to source columns.
	DatatypeProps map[string]string `yaml:"datatype_props,omitempty" json:"datatype_props,omitempty"`

	// ObjectLinks binds ontology property names to identifier templates.
	ObjectLinks map[string]string `yaml:"object_links,omitempty" json:"object_links,omitempty"`

	// NLPExtraction runs the entity extractor over the TextColumn.
	NLPExtraction bool `yaml:"nlp_extraction,omitempty" json:"nlp_extraction,omitempty"`

	links []Link
}

// Links returns the compiled object-link bindings in a stable order.
func (s *Section) Links() []Link {
	return s.links
}

// Config is a loaded mapping configuration: sections in declaration order.
type Config struct {
	Sections []Section
}

// compile validates a section and resolves each object link to its kind.
func (s *Section) compile() error {
	if s.File == "" {
		return fmt.Errorf("section %q: missing file", s.Name)
	}
	if s.Subject == "" {
		return fmt.Errorf("section %q: missing subject template", s.Name)
	}
	if err := checkBraces(s.Subject); err != nil {
		return fmt.Errorf("section %q: subject: %w", s.Name, err)
	}

	s.links = s.links[:0]
	for _, property := range sortedKeys(s.ObjectLinks) {
		tmpl := s.ObjectLinks[property]
		if err := checkBraces(tmpl); err != nil {
			return fmt.Errorf("section %q: object link %q: %w", s.Name, property, err)
		}
		s.links = append(s.links, compileLink(property, tmpl))
	}
	return nil
}

func compileLink(property, tmpl string) Link {
	if !strings.Contains(tmpl, "{") {
		return Link{Property: property, Template: tmpl, Kind: LinkFixed, Concept: tmpl}
	}
	concept := tmpl
	if i := strings.IndexAny(tmpl, "_{"); i > 0 {
		concept = tmpl[:i]
	}
	return Link{Property: property, Template: tmpl, Kind: LinkParameterized, Concept: concept}
}

// checkBraces rejects unbalanced or nested placeholder braces.
func checkBraces(tmpl string) error {
	depth := 0
	for _, r := range tmpl {
		switch r {
		case '{':
			depth++
			if depth > 1 {
				return fmt.Errorf("nested placeholder in %q", tmpl)
			}
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced braces in %q", tmpl)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced braces in %q", tmpl)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
