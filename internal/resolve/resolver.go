// Package resolve turns identifier templates and row values into canonical
// entity identifiers and display labels. Resolution is a pure function of
// its inputs: the same template and row always produce the same identifier,
// within a run and across runs.
package resolve

import (
	"regexp"
	"strings"

	"github.com/oncokg/oncograph/internal/model"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Placeholders lists the column names a template references, in order of
// appearance.
func Placeholders(template string) []string {
	matches := placeholderRe.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}
	cols := make([]string, 0, len(matches))
	for _, m := range matches {
		cols = append(cols, m[1])
	}
	return cols
}

// IsFixed reports whether a template carries no placeholders and therefore
// names a fixed ontology reference rather than a row-scoped resource.
func IsFixed(template string) bool {
	return !placeholderRe.MatchString(template)
}

// Resolve fills a template with row values. Every {column} placeholder is
// substituted with the row's value for that column, rendered stable and
// locale-independent (integers without a trailing ".0", dates ISO-8601).
// A placeholder referencing an absent column yields MissingColumnError.
func Resolve(template string, row model.Row) (string, error) {
	var missing *model.MissingColumnError
	out := placeholderRe.ReplaceAllStringFunc(template, func(ph string) string {
		col := ph[1 : len(ph)-1]
		v, ok := row[col]
		if !ok {
			if missing == nil {
				missing = &model.MissingColumnError{Column: col, Template: template}
			}
			return ph
		}
		return v.String()
	})
	if missing != nil {
		return "", missing
	}
	return out, nil
}

// MentionID builds the identifier for a text-mined entity. Mentions share
// the identifier space with row-driven entities, so the same drug surfacing
// in an article and in a treatments table merges onto one node.
func MentionID(concept, canonical string) string {
	return concept + "_" + canonical
}

// lastSegment trims a resolved identifier to its final path or fragment
// segment.
func lastSegment(id string) string {
	if i := strings.LastIndexAny(id, "/#"); i >= 0 && i+1 < len(id) {
		return id[i+1:]
	}
	return id
}
