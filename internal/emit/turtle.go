// Package emit serializes the accumulated run state: triples into Turtle,
// statements into a Cypher change script. Both serializers are pure
// functions of their input; no row-level logic lives here.
package emit

import (
	"fmt"
	"strings"

	"github.com/oncokg/oncograph/internal/model"
	"github.com/oncokg/oncograph/internal/vocab"
)

// Flush serializes both sinks at once.
func Flush(triples *model.TripleSet, statements []model.Statement, ns vocab.Namespaces) (turtle, script string) {
	return Turtle(triples, ns), Script(statements)
}

// Turtle renders the triple set as Turtle text. Triples come out sorted by
// canonical key, so identical inputs serialize byte-identically across
// runs.
func Turtle(triples *model.TripleSet, ns vocab.Namespaces) string {
	var b strings.Builder

	b.WriteString("@prefix res: <" + ns.Resource + "> .\n")
	b.WriteString("@prefix ont: <" + ns.Ontology + "> .\n")
	b.WriteString("@prefix rdf: <" + vocab.RDFNS + "> .\n")
	b.WriteString("@prefix rdfs: <" + vocab.RDFSNS + "> .\n")
	b.WriteString("@prefix xsd: <" + vocab.XSDNS + "> .\n\n")

	for _, t := range triples.All() {
		b.WriteString(nodeRef(t.Subject))
		b.WriteByte(' ')
		b.WriteString(predicateRef(t.Predicate))
		b.WriteByte(' ')
		b.WriteString(termRef(t.Object))
		b.WriteString(" .\n")
	}
	return b.String()
}

func nodeRef(n model.Node) string {
	if n.Space == model.SpaceOntology {
		return "ont:" + localName(n.ID)
	}
	return "res:" + localName(n.ID)
}

// localName percent-encodes the bytes a prefixed local name cannot carry.
// Identifiers built from row values may contain spaces or punctuation
// ("Stage_IV A"); emitting them raw would break the Turtle parse.
func localName(id string) string {
	clean := true
	for i := 0; i < len(id); i++ {
		if !safeLocalByte(id[i]) {
			clean = false
			break
		}
	}
	if clean {
		return id
	}

	var b strings.Builder
	b.Grow(len(id) + 6)
	for i := 0; i < len(id); i++ {
		c := id[i]
		if safeLocalByte(c) {
			b.WriteByte(c)
		} else {
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}

func safeLocalByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}

// predicateRef leaves already-prefixed standards vocabulary alone and puts
// everything else in the ontology namespace.
func predicateRef(pred string) string {
	if strings.Contains(pred, ":") {
		return pred
	}
	return "ont:" + pred
}

func termRef(term model.Term) string {
	if term.Node != nil {
		return nodeRef(*term.Node)
	}
	return literalRef(*term.Literal, term.Datatype)
}

func literalRef(v model.Value, datatype string) string {
	if datatype != "" {
		return quote(v.String()) + "^^" + datatype
	}
	switch v.Kind {
	case model.KindInt:
		return v.String()
	case model.KindFloat:
		return decimal(v.String())
	case model.KindDate:
		return quote(v.String()) + "^^" + vocab.XSDDate
	default:
		return quote(v.Str)
	}
}

// decimal keeps float literals parseable as Turtle decimals; a bare "63"
// would read back as an integer.
func decimal(s string) string {
	if strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}

var turtleEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quote(s string) string {
	return `"` + turtleEscaper.Replace(s) + `"`
}
