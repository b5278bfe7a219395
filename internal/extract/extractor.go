// Package extract finds clinical concept mentions in free text with a
// registry of pattern rules, canonicalizing each mention into the same
// identifier space as row-driven entities.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/oncokg/oncograph/internal/model"
)

// MinTextLength is the shortest text worth mining. Below this, mention
// extraction is considered unreliable and Extract returns nothing.
const MinTextLength = 50

// Extractor scans free text for domain-concept mentions.
type Extractor struct {
	registry *Registry
}

// NewExtractor creates an extractor with the built-in concept registry.
func NewExtractor() *Extractor {
	return &Extractor{registry: NewRegistry()}
}

// NewExtractorWithRegistry creates an extractor over a custom registry.
func NewExtractorWithRegistry(r *Registry) *Extractor {
	return &Extractor{registry: r}
}

// Extract returns the concept mentions found in text, keyed by concept
// type, with (surface, canonical) pairs deduplicated per type. Article
// bodies that carry HTML markup are reduced to visible text first. Never
// fails: malformed, absent, or too-short input yields an empty map.
func (e *Extractor) Extract(text string) map[string][]model.Mention {
	mentions := make(map[string][]model.Mention)
	if len(text) < MinTextLength {
		return mentions
	}
	if strings.Contains(text, "<") {
		text = VisibleText(text)
	}

	for _, concept := range e.registry.Concepts() {
		seen := make(map[string]bool)
		var found []model.Mention
		for _, rule := range e.registry.Rules(concept) {
			for _, surface := range rule.Pattern.FindAllString(text, -1) {
				canonical, ok := rule.Canonicalize(surface)
				if !ok {
					// CanonicalizationError territory: the pattern fired
					// but no usable fragment came out. Drop the mention.
					continue
				}
				key := surface + "\x00" + canonical
				if seen[key] {
					continue
				}
				seen[key] = true
				found = append(found, model.Mention{
					Concept:   concept,
					Surface:   surface,
					Canonical: canonical,
				})
			}
		}
		if len(found) > 0 {
			mentions[concept] = found
		}
	}
	return mentions
}

var ageRe = regexp.MustCompile(`(?i)(\d{1,3})[-\s]?years?[-\s]?old`)

// ExtractAges finds "N year(s) old" mentions and filters them to the
// plausible human range, 1 through 119. Auxiliary metadata only; callers
// decide what to do with it.
func (e *Extractor) ExtractAges(text string) []int {
	var ages []int
	for _, m := range ageRe.FindAllStringSubmatch(text, -1) {
		age, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if age >= 1 && age <= 119 {
			ages = append(ages, age)
		}
	}
	return ages
}
