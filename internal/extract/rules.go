package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Canonicalizer reduces a matched span to the normalized fragment used in
// entity identifiers. It returns false when the result is unusable (the
// mention is then dropped).
type Canonicalizer func(surface string) (string, bool)

// Rule pairs a concept pattern with its canonicalization.
type Rule struct {
	Pattern      *regexp.Regexp
	Canonicalize Canonicalizer
}

// Registry maps concept types to their ordered matching rules. New concept
// types register without touching the extraction control flow.
type Registry struct {
	order []string
	rules map[string][]Rule
}

// NewRegistry returns a registry preloaded with the clinical concept
// vocabulary: histology subtypes, TNM/stage codes, biomarker genes,
// mutation codes, drugs, therapy modalities, diagnostic tests and
// outcome/response terms.
func NewRegistry() *Registry {
	r := &Registry{rules: make(map[string][]Rule)}

	r.Register("Histology", Rule{
		Pattern: regexp.MustCompile(`(?i)\b(adenocarcinoma|squamous cell carcinoma|small cell lung cancer|SCLC|NSCLC|` +
			`non-small cell lung cancer|large cell carcinoma|neuroendocrine)\b`),
		Canonicalize: TitleCanonical,
	})
	// The Stage pattern and the suffix sub-pattern in StageCanonical must
	// cover the same span forms; a span the sub-pattern misses falls back
	// to TitleCanonical (which is what TNM codes rely on).
	r.Register("Stage", Rule{
		Pattern:      regexp.MustCompile(`(?i)\b(stage\s+[I1234]{1,3}[AB]?|T[1-4]N[0-3]M[01])\b`),
		Canonicalize: StageCanonical,
	})
	r.Register("Biomarker", Rule{
		Pattern:      regexp.MustCompile(`(?i)\b(EGFR|ALK|ROS1|BRAF|KRAS|MET|RET|NTRK|PD-L1|HER2|PIK3CA)\b`),
		Canonicalize: UpperCanonical,
	})
	r.Register("Mutation", Rule{
		Pattern:      regexp.MustCompile(`(?i)\b(L858R|Ex19del|T790M|G12C|V600E|EML4-ALK|exon\s+\d+)\b`),
		Canonicalize: UpperCanonical,
	})
	r.Register("Drug", Rule{
		Pattern: regexp.MustCompile(`(?i)\b(osimertinib|erlotinib|gefitinib|afatinib|alectinib|crizotinib|` +
			`pembrolizumab|nivolumab|atezolizumab|cisplatin|carboplatin|` +
			`pemetrexed|docetaxel|paclitaxel|bevacizumab)\b`),
		Canonicalize: TitleCanonical,
	})
	r.Register("Therapy", Rule{
		Pattern: regexp.MustCompile(`(?i)\b(chemotherapy|immunotherapy|targeted therapy|radiation|surgery|` +
			`chemoradiation|stereotactic radiosurgery|SBRT|lobectomy|` +
			`pneumonectomy|VATS|thoracoscopic)\b`),
		Canonicalize: TitleCanonical,
	})
	r.Register("Test", Rule{
		Pattern: regexp.MustCompile(`(?i)\b(CT scan|PET scan|PET-CT|MRI|biopsy|genomic test|molecular testing|` +
			`next-generation sequencing|NGS|liquid biopsy)\b`),
		Canonicalize: TitleCanonical,
	})
	r.Register("Outcome", Rule{
		Pattern: regexp.MustCompile(`(?i)\b(complete response|partial response|stable disease|progressive disease|` +
			`CR|PR|SD|PD|progression-free survival|PFS|overall survival|OS|` +
			`recurrence|metastasis|remission)\b`),
		Canonicalize: TitleCanonical,
	})

	return r
}

// Register appends a rule for a concept type, creating the type if new.
func (r *Registry) Register(concept string, rule Rule) {
	if _, ok := r.rules[concept]; !ok {
		r.order = append(r.order, concept)
	}
	r.rules[concept] = append(r.rules[concept], rule)
}

// Concepts returns concept types in registration order.
func (r *Registry) Concepts() []string {
	return r.order
}

// Rules returns the rules for a concept type.
func (r *Registry) Rules(concept string) []Rule {
	return r.rules[concept]
}

// UpperCanonical collapses whitespace to underscores and uppercases.
// Used for biomarkers and mutation codes.
func UpperCanonical(surface string) (string, bool) {
	c := strings.ToUpper(collapse(surface))
	return c, c != ""
}

// TitleCanonical collapses whitespace to underscores and title-cases each
// word. Used for drugs, therapies and all concept types without a special
// rule.
func TitleCanonical(surface string) (string, bool) {
	c := titleWords(collapse(surface))
	return c, c != ""
}

var stageSuffixRe = regexp.MustCompile(`(?i)stage\s+([I1234]{1,3}[AB]?)`)

// StageCanonical re-extracts the roman-numeral/letter suffix from a stage
// span ("stage IIIB" -> "IIIB"). Spans without the suffix, like bare TNM
// codes, get the generic title rule.
func StageCanonical(surface string) (string, bool) {
	if m := stageSuffixRe.FindStringSubmatch(surface); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return TitleCanonical(surface)
}

// collapse trims the span and joins internal whitespace runs with
// underscores.
func collapse(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), "_")
}

// titleWords uppercases the first letter of every alphabetic run and
// lowercases the rest, leaving digits and punctuation as boundaries.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
