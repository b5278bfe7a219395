package model

// Mention is one concept occurrence found in free text by the entity
// extractor. It lives only long enough to be converted into triples and
// statements tied to the originating row subject.
type Mention struct {
	// Concept is the ontology class the pattern belongs to (Drug, Stage, ...).
	Concept string `json:"concept"`

	// Surface is the matched span exactly as it appeared in the text.
	Surface string `json:"surface"`

	// Canonical is the normalized form used to build the entity identifier.
	Canonical string `json:"canonical"`
}

// NLPEntity is an entity reported by the optional external NER backend.
// Backend results are additive diagnostics: they are reported alongside the
// deterministic extraction and never feed triple emission.
type NLPEntity struct {
	Name     string   `json:"name"`
	Type     string   `json:"type,omitempty"`
	Salience float64  `json:"salience,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
}
