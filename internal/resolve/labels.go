package resolve

import (
	"strings"

	"github.com/oncokg/oncograph/internal/model"
)

// Override renders a concept-specific display label from row context. It
// returns false when the row lacks what it needs, in which case the generic
// algorithm applies.
type Override func(row model.Row) (string, bool)

// Labeler derives human-readable display labels for graph nodes. Concepts
// without a registered override get the generic treatment: resolve the
// template, keep the final path/fragment segment, replace separators with
// spaces.
type Labeler struct {
	overrides map[string]Override
}

// NewLabeler returns a labeler with the built-in overrides registered.
func NewLabeler() *Labeler {
	l := &Labeler{overrides: make(map[string]Override)}
	l.Register("Patient", func(row model.Row) (string, bool) {
		v, ok := row["patient_id"]
		if !ok {
			return "", false
		}
		return "Patient " + v.String(), true
	})
	return l
}

// Register adds or replaces the override for a concept type.
func (l *Labeler) Register(concept string, fn Override) {
	l.overrides[concept] = fn
}

// LabelFor produces a display label for an entity of the given concept
// type. It never fails: a missing override input or an unresolvable
// template falls back to the generic algorithm over the template text
// itself.
func (l *Labeler) LabelFor(concept string, row model.Row, template string) string {
	if fn, ok := l.overrides[concept]; ok && row != nil {
		if label, ok := fn(row); ok {
			return label
		}
	}

	resolved, err := Resolve(template, row)
	if err != nil {
		resolved = placeholderRe.ReplaceAllString(template, "")
	}
	return spaceSeparators(lastSegment(resolved))
}

// spaceSeparators turns identifier underscores into spaces. Hyphens stay:
// they are part of surface forms like PD-L1, not identifier separators.
func spaceSeparators(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " ")
}
