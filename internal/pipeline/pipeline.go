// Package pipeline orchestrates a mapping-driven ETL run: one mapping
// configuration in, one set of semantic triples plus one property-graph
// change script out. Each section reads a tabular source and walks its rows
// through a fixed emission sequence; the two accumulators stay structurally
// consistent because every emission writes both sides from the same
// resolved identifiers.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/oncokg/oncograph/internal/extract"
	"github.com/oncokg/oncograph/internal/mapping"
	"github.com/oncokg/oncograph/internal/model"
	"github.com/oncokg/oncograph/internal/nlp"
	"github.com/oncokg/oncograph/internal/ontology"
	"github.com/oncokg/oncograph/internal/resolve"
	"github.com/oncokg/oncograph/internal/source"
	"github.com/oncokg/oncograph/internal/vocab"
	"github.com/oncokg/oncograph/internal/worker"
)

// Options configures one engine run.
type Options struct {
	// Mapping is the loaded mapping configuration.
	Mapping *mapping.Config

	// DataDir roots relative source paths.
	DataDir string

	// Namespaces is the resource/ontology prefix pair. Zero value means
	// vocab.Default().
	Namespaces vocab.Namespaces

	// Schema is the optional parsed ontology. Consulted only to flag
	// concepts the schema never declares; never used to reject output.
	Schema *ontology.Schema

	// Workers fans each section's rows over a pool when > 1.
	Workers int

	// NLP configures the optional external NER backend.
	NLP nlp.Config

	// Verbose echoes contained failures to stderr as they happen.
	Verbose bool
}

// Result is the complete output of a run.
type Result struct {
	Triples    *model.TripleSet
	Statements []model.Statement
	Report     model.RunReport
}

// Engine is the mapping-driven ETL orchestrator.
type Engine struct {
	opts      Options
	reader    *source.Reader
	labeler   *resolve.Labeler
	extractor *extract.Extractor
	ner       *nlp.Service
}

// New creates an engine. The NER backend is initialized here and the run
// degrades to deterministic extraction alone if it cannot be.
func New(opts Options) (*Engine, error) {
	if opts.Mapping == nil || len(opts.Mapping.Sections) == 0 {
		return nil, &model.ConfigError{Err: fmt.Errorf("no mapping sections")}
	}
	if opts.Namespaces == (vocab.Namespaces{}) {
		opts.Namespaces = vocab.Default()
	}

	ner, err := nlp.NewService(opts.NLP)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: NER backend disabled: %v\n", err)
		ner = nil
	}

	return &Engine{
		opts:      opts,
		reader:    source.NewReader(opts.DataDir),
		labeler:   resolve.NewLabeler(),
		extractor: extract.NewExtractor(),
		ner:       ner,
	}, nil
}

// Labeler exposes the label override registry so callers can register
// concept-specific display rules before Run.
func (e *Engine) Labeler() *resolve.Labeler {
	return e.labeler
}

// Run processes every section. Section-level failures (a missing source
// file) abort only that section and are surfaced in the report; row and
// field failures are contained and logged. A non-nil error means the run
// as a whole could not proceed.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	result := &Result{Triples: model.NewTripleSet()}
	result.Report.StartedAt = time.Now().UTC()

	for i := range e.opts.Mapping.Sections {
		sec := &e.opts.Mapping.Sections[i]
		report := e.runSection(ctx, sec, result)
		result.Report.Sections = append(result.Report.Sections, *report)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	result.Report.FinishedAt = time.Now().UTC()
	result.Report.Triples = result.Triples.Len()
	result.Report.Statements = len(result.Statements)
	return result, nil
}

func (e *Engine) runSection(ctx context.Context, sec *mapping.Section, result *Result) *model.SectionReport {
	report := &model.SectionReport{Name: sec.Name, Source: sec.File}

	if e.opts.Schema != nil && sec.Type != "" && !e.opts.Schema.HasClass(sec.Type) {
		report.AddDiagnostic(fmt.Sprintf("type %q not declared in ontology", sec.Type))
	}

	paths, err := e.reader.Resolve(sec.Name, sec.File)
	if err != nil {
		report.Err = err.Error()
		e.warnf("section %s: %v", sec.Name, err)
		return report
	}

	for _, path := range paths {
		table, err := e.reader.Read(path)
		if err != nil {
			report.Err = err.Error()
			e.warnf("section %s: %v", sec.Name, err)
			return report
		}

		// The subject template must reference only columns the source
		// declares; a mapping that breaks this invariant fails the
		// section before any row is touched.
		for _, col := range resolve.Placeholders(sec.Subject) {
			if !table.HasColumn(col) {
				err := &model.MissingColumnError{Column: col, Template: sec.Subject}
				report.Err = fmt.Sprintf("subject template: %v", err)
				e.warnf("section %s: subject template: %v", sec.Name, err)
				return report
			}
		}

		emissions := e.processRows(ctx, sec, table.Rows)
		for _, em := range emissions {
			e.mergeEmission(em, result, report)
		}
	}
	return report
}

// processRows runs the per-row state machine, sequentially or over the
// worker pool. Emissions come back in row order either way, so the
// statement script stays grouped by row.
func (e *Engine) processRows(ctx context.Context, sec *mapping.Section, rows []model.Row) []*rowEmission {
	if e.opts.Workers <= 1 || len(rows) < 2 {
		out := make([]*rowEmission, 0, len(rows))
		for i, row := range rows {
			out = append(out, e.processRow(ctx, sec, row, i))
		}
		return out
	}

	pool := worker.NewPool(e.opts.Workers)
	pool.Start()
	for i, row := range rows {
		pool.Submit(&rowJob{engine: e, ctx: ctx, section: sec, row: row, index: i})
	}
	results := pool.Wait()

	out := make([]*rowEmission, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*rowEmission))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

func (e *Engine) mergeEmission(em *rowEmission, result *Result, report *model.SectionReport) {
	report.Rows++
	if em.skipped {
		report.RowsSkipped++
	}
	for _, t := range em.triples {
		result.Triples.Add(t)
	}
	result.Statements = append(result.Statements, em.statements...)
	for _, d := range em.diagnostics {
		report.AddDiagnostic(d)
		e.warnf("%s", d)
	}
	report.Mentions += em.mentions
	report.Ages = append(report.Ages, em.ages...)
	report.NLPEntities = append(report.NLPEntities, em.nlpEntities...)
}

// rowJob adapts one row to the worker pool.
type rowJob struct {
	engine  *Engine
	ctx     context.Context
	section *mapping.Section
	row     model.Row
	index   int
}

func (j *rowJob) Execute(context.Context) worker.Result {
	return j.engine.processRow(j.ctx, j.section, j.row, j.index)
}

// rowEmission is everything one row produced. Workers fill private
// emissions; the engine merges them afterwards, which keeps the
// accumulators single-writer.
type rowEmission struct {
	index       int
	skipped     bool
	triples     []model.Triple
	statements  []model.Statement
	diagnostics []string
	mentions    int
	ages        []int
	nlpEntities []model.NLPEntity
}

func (r *rowEmission) GetError() error { return nil }

// processRow walks the emission sequence for one row: resolve the subject,
// then type and label, datatype properties, object links, and text mining.
// Only a subject failure skips the row; every later step is attempted
// independently.
func (e *Engine) processRow(ctx context.Context, sec *mapping.Section, row model.Row, index int) *rowEmission {
	em := &rowEmission{index: index}

	subject, err := resolve.Resolve(sec.Subject, row)
	if err != nil {
		em.skipped = true
		em.diagnostics = append(em.diagnostics,
			fmt.Sprintf("section %s: row %d skipped: %v", sec.Name, index, err))
		return em
	}

	subjectSpace := model.SpaceResource
	if resolve.IsFixed(sec.Subject) {
		subjectSpace = model.SpaceOntology
	}
	subjNode := model.Node{ID: subject, Space: subjectSpace}

	e.emitSubject(sec, row, subjNode, em)
	e.emitDatatypeProps(sec, row, subjNode, index, em)
	e.emitObjectLinks(sec, row, subjNode, index, em)
	if sec.NLPExtraction {
		e.emitTextMining(ctx, sec, row, subjNode, em)
	}
	return em
}

// emitSubject merges the subject node and, when the section declares a
// type, asserts it along with a display label. Sections without a type
// still merge the bare node so later SET and relationship statements have
// something to attach to.
func (e *Engine) emitSubject(sec *mapping.Section, row model.Row, subj model.Node, em *rowEmission) {
	em.statements = append(em.statements, model.MergeNode("n", sec.Type, subj.ID))

	if sec.Type == "" {
		return
	}

	label := e.labeler.LabelFor(sec.Type, row, sec.Subject)
	em.triples = append(em.triples,
		model.Triple{Subject: subj, Predicate: vocab.PredType, Object: model.NodeTerm(sec.Type, model.SpaceOntology)},
		model.Triple{Subject: subj, Predicate: vocab.PredLabel, Object: model.LiteralTerm(model.StringValue(label))},
	)
	em.statements = append(em.statements, model.SetProperty("n", "label", model.StringValue(label)))
}

func (e *Engine) emitDatatypeProps(sec *mapping.Section, row model.Row, subj model.Node, index int, em *rowEmission) {
	for _, property := range sortedPropKeys(sec.DatatypeProps) {
		column := sec.DatatypeProps[property]
		v, ok := row[column]
		if !ok {
			em.diagnostics = append(em.diagnostics,
				fmt.Sprintf("section %s: row %d: property %s: %v",
					sec.Name, index, property, &model.MissingColumnError{Column: column}))
			continue
		}

		term := model.LiteralTerm(v)
		if isDateProperty(property, v) {
			term = model.TypedLiteralTerm(v, vocab.XSDDate)
		}
		em.triples = append(em.triples, model.Triple{Subject: subj, Predicate: property, Object: term})
		em.statements = append(em.statements, model.SetProperty("n", property, v))
	}
}

func (e *Engine) emitObjectLinks(sec *mapping.Section, row model.Row, subj model.Node, index int, em *rowEmission) {
	for _, link := range sec.Links() {
		var obj model.Node
		switch link.Kind {
		case mapping.LinkFixed:
			// Fixed references live in the ontology namespace: one shared
			// node, identical for every row of every section.
			obj = model.Node{ID: link.Template, Space: model.SpaceOntology}
		default:
			id, err := resolve.Resolve(link.Template, row)
			if err != nil {
				em.diagnostics = append(em.diagnostics,
					fmt.Sprintf("section %s: row %d: link %s: %v", sec.Name, index, link.Property, err))
				continue
			}
			obj = model.Node{ID: id, Space: model.SpaceResource}
		}

		label := e.labeler.LabelFor(link.Concept, row, link.Template)

		// The object gets its own type assertion and label even though it
		// may never appear as a row subject; downstream label-based
		// tooling needs to classify it.
		em.triples = append(em.triples,
			model.Triple{Subject: subj, Predicate: link.Property, Object: model.Term{Node: &obj}},
			model.Triple{Subject: obj, Predicate: vocab.PredType, Object: model.NodeTerm(link.Concept, model.SpaceOntology)},
			model.Triple{Subject: obj, Predicate: vocab.PredLabel, Object: model.LiteralTerm(model.StringValue(label))},
		)
		em.statements = append(em.statements,
			model.MergeNode("o", link.Concept, obj.ID),
			model.SetProperty("o", "label", model.StringValue(label)),
			model.MergeRelationship("n", strings.ToUpper(link.Property), "o"),
		)
	}
}

func (e *Engine) emitTextMining(ctx context.Context, sec *mapping.Section, row model.Row, subj model.Node, em *rowEmission) {
	body, ok := row[mapping.TextColumn]
	if !ok {
		return
	}
	text := body.String()
	if len(text) < extract.MinTextLength {
		return
	}

	mentions := e.extractor.Extract(text)
	for _, concept := range sortedConcepts(mentions) {
		for _, m := range mentions[concept] {
			id := resolve.MentionID(m.Concept, m.Canonical)
			label := e.labeler.LabelFor(m.Concept, nil, id)

			em.triples = append(em.triples,
				model.Triple{Subject: model.Node{ID: id, Space: model.SpaceResource}, Predicate: vocab.PredType, Object: model.NodeTerm(m.Concept, model.SpaceOntology)},
				model.Triple{Subject: model.Node{ID: id, Space: model.SpaceResource}, Predicate: vocab.PredLabel, Object: model.LiteralTerm(model.StringValue(label))},
				model.Triple{Subject: subj, Predicate: vocab.PredRefersTo, Object: model.NodeTerm(id, model.SpaceResource)},
			)
			em.statements = append(em.statements,
				model.MergeNode("e", m.Concept, id),
				model.SetProperty("e", "label", model.StringValue(label)),
				model.MergeRelationship("n", vocab.RelRefersTo, "e"),
			)
			em.mentions++
		}
	}

	em.ages = append(em.ages, e.extractor.ExtractAges(text)...)

	if e.ner != nil {
		entities, err := e.ner.Extract(ctx, text)
		if err != nil {
			em.diagnostics = append(em.diagnostics,
				fmt.Sprintf("section %s: NER backend: %v", sec.Name, err))
		} else {
			em.nlpEntities = append(em.nlpEntities, entities...)
		}
	}
}

// isDateProperty decides whether a literal gets the xsd:date tag: either
// the source cell parsed as a date, or the property is named for one.
func isDateProperty(property string, v model.Value) bool {
	if v.Kind == model.KindDate {
		return true
	}
	return strings.Contains(strings.ToLower(property), "date")
}

func sortedPropKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedConcepts(m map[string][]model.Mention) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Engine) warnf(format string, args ...interface{}) {
	if e.opts.Verbose {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}
