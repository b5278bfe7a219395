// Package ontology reads just enough of a Turtle schema document to expose
// the concept and property names it declares. The engine treats the
// ontology as an opaque namespace provider: nothing here validates instance
// data (that is a downstream SHACL concern), and an absent ontology is
// always acceptable.
package ontology

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
)

// Schema holds the declared class and property local names of an ontology.
type Schema struct {
	classes    map[string]bool
	properties map[string]bool
}

var declRe = regexp.MustCompile(`^\s*(?:[A-Za-z][\w-]*)?:([A-Za-z][\w-]*)\s+(?:a|rdf:type)\s+owl:(Class|ObjectProperty|DatatypeProperty|AnnotationProperty)\b`)

// Load parses a Turtle schema file.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ontology %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse scans Turtle text for owl:Class and owl:*Property declarations.
// Anything beyond those declarations is ignored.
func Parse(r io.Reader) (*Schema, error) {
	s := &Schema{
		classes:    make(map[string]bool),
		properties: make(map[string]bool),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := declRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if m[2] == "Class" {
			s.classes[m[1]] = true
		} else {
			s.properties[m[1]] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ontology: %w", err)
	}
	return s, nil
}

// HasClass reports whether the schema declares a class.
func (s *Schema) HasClass(name string) bool {
	return s.classes[name]
}

// HasProperty reports whether the schema declares a property.
func (s *Schema) HasProperty(name string) bool {
	return s.properties[name]
}

// Classes returns declared class names, sorted.
func (s *Schema) Classes() []string {
	return sortedNames(s.classes)
}

// Properties returns declared property names, sorted.
func (s *Schema) Properties() []string {
	return sortedNames(s.properties)
}

func sortedNames(m map[string]bool) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
