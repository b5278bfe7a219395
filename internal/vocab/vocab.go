// Package vocab holds the RDF namespaces and well-known predicate names used
// across the knowledge graph. Domain concepts (Patient, Drug, Stage, ...)
// come from the ontology file and the mapping config; only the standards
// vocabulary and the two graph namespaces live here.
package vocab

// Standard W3C namespaces.
const (
	RDFNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNS  = "http://www.w3.org/2001/XMLSchema#"
)

// Default graph namespaces. Both can be overridden per run through
// Namespaces; these match the published lungkg ontology.
const (
	DefaultResourceNS = "http://lungkg.org/resource/"
	DefaultOntologyNS = "http://lungkg.org/ontology#"
)

// Well-known predicates.
const (
	PredType  = "rdf:type"
	PredLabel = "rdfs:label"

	// PredRefersTo links a row subject to an entity mentioned in its text.
	PredRefersTo = "refersTo"

	// RelRefersTo is the property-graph relationship type for PredRefersTo.
	RelRefersTo = "REFERS_TO"
)

// XSDDate is the datatype IRI suffix attached to date literals.
const XSDDate = "xsd:date"

// Namespaces carries the two graph prefixes through identifier
// construction. Resource is the per-row instance namespace; Ontology is the
// closed class/property namespace.
type Namespaces struct {
	Resource string
	Ontology string
}

// Default returns the lungkg namespace pair.
func Default() Namespaces {
	return Namespaces{
		Resource: DefaultResourceNS,
		Ontology: DefaultOntologyNS,
	}
}

// ResourceIRI expands a local instance identifier into a full IRI.
func (n Namespaces) ResourceIRI(local string) string {
	return n.Resource + local
}

// OntologyIRI expands a class or property name into a full IRI.
func (n Namespaces) OntologyIRI(name string) string {
	return n.Ontology + name
}
