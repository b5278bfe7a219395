package model

import (
	"sort"
	"strconv"
	"strings"
)

// Space distinguishes the two identifier spaces of the graph. Resource
// identifiers are row-scoped and unbounded in count; ontology references
// are a small closed set shared by all rows (e.g. one LungCancer node).
type Space int

const (
	SpaceResource Space = iota
	SpaceOntology
)

// Node identifies a graph node by its local name within one of the two
// namespaces. The full IRI is produced at serialization time from the
// configured namespace pair.
type Node struct {
	ID    string
	Space Space
}

// Term is a triple object: either a node reference or a literal value.
type Term struct {
	Node    *Node
	Literal *Value

	// Datatype tags a typed literal (e.g. vocab.XSDDate). Empty for plain
	// literals and node terms.
	Datatype string
}

// NodeTerm builds a node-valued term.
func NodeTerm(id string, space Space) Term {
	return Term{Node: &Node{ID: id, Space: space}}
}

// LiteralTerm builds a literal-valued term.
func LiteralTerm(v Value) Term {
	return Term{Literal: &v}
}

// TypedLiteralTerm builds a literal term carrying an explicit datatype.
func TypedLiteralTerm(v Value, datatype string) Term {
	return Term{Literal: &v, Datatype: datatype}
}

// Triple is one subject-predicate-object statement. The predicate is either
// a well-known name from vocab (rdf:type, rdfs:label) or an ontology
// property local name.
type Triple struct {
	Subject   Node
	Predicate string
	Object    Term
}

// Key returns a canonical string identity for set-union semantics.
func (t Triple) Key() string {
	var b strings.Builder
	b.WriteString(spaceTag(t.Subject.Space))
	b.WriteByte(':')
	b.WriteString(t.Subject.ID)
	b.WriteByte('|')
	b.WriteString(t.Predicate)
	b.WriteByte('|')
	if t.Object.Node != nil {
		b.WriteString(spaceTag(t.Object.Node.Space))
		b.WriteByte(':')
		b.WriteString(t.Object.Node.ID)
	} else if t.Object.Literal != nil {
		// The kind participates in identity: an int 63 and a string "63"
		// render alike but are distinct literals.
		b.WriteString("lit")
		b.WriteString(strconv.Itoa(int(t.Object.Literal.Kind)))
		b.WriteByte(':')
		b.WriteString(t.Object.Literal.String())
		b.WriteByte('^')
		b.WriteString(t.Object.Datatype)
	}
	return b.String()
}

func spaceTag(s Space) string {
	if s == SpaceOntology {
		return "ont"
	}
	return "res"
}

// TripleSet accumulates triples with set-union semantics: the same triple
// emitted from any number of sections or rows is stored once. Not safe for
// concurrent use; the engine merges per-worker sets instead.
type TripleSet struct {
	byKey map[string]Triple
}

// NewTripleSet returns an empty set.
func NewTripleSet() *TripleSet {
	return &TripleSet{byKey: make(map[string]Triple)}
}

// Add inserts a triple, ignoring duplicates.
func (s *TripleSet) Add(t Triple) {
	s.byKey[t.Key()] = t
}

// Merge folds another set into this one.
func (s *TripleSet) Merge(other *TripleSet) {
	for k, t := range other.byKey {
		s.byKey[k] = t
	}
}

// Len reports the number of distinct triples.
func (s *TripleSet) Len() int {
	return len(s.byKey)
}

// Contains reports whether an identical triple is present.
func (s *TripleSet) Contains(t Triple) bool {
	_, ok := s.byKey[t.Key()]
	return ok
}

// All returns the triples sorted by canonical key, so serialization is
// deterministic across runs.
func (s *TripleSet) All() []Triple {
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Triple, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.byKey[k])
	}
	return out
}
