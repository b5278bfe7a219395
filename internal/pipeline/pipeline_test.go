package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncokg/oncograph/internal/emit"
	"github.com/oncokg/oncograph/internal/mapping"
	"github.com/oncokg/oncograph/internal/model"
	"github.com/oncokg/oncograph/internal/ontology"
	"github.com/oncokg/oncograph/internal/vocab"
)

const testMapping = `
patients:
  file: patients.csv
  subject: Patient_{patient_id}
  type: Patient
  datatype_props:
    sex: sex
    diagnosis_date: diagnosis_date
  object_links:
    has_disease: LungCancer
    has_histology: Histology_{histology}
treatments:
  file: treatments.csv
  subject: Patient_{patient_id}
  object_links:
    treated_with: Drug_{drug}
articles:
  file: articles.csv
  subject: Article_{article_id}
  type: Article
  nlp_extraction: true
`

const patientsCSV = "patient_id,sex,diagnosis_date,histology\n" +
	"P1,F,2020-03-15,adenocarcinoma\n"

const treatmentsCSV = "patient_id,drug\n" +
	"P1,osimertinib\n"

const articlesCSV = "article_id,body\n" +
	"A1,\"The patient, a 67-year-old woman, started osimertinib after EGFR testing.\"\n"

func writeTestData(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func runEngine(t *testing.T, mappingYAML string, files map[string]string, workers int) *Result {
	t.Helper()
	cfg, err := mapping.ParseYAML([]byte(mappingYAML))
	require.NoError(t, err)

	engine, err := New(Options{
		Mapping: cfg,
		DataDir: writeTestData(t, files),
		Workers: workers,
	})
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)
	return result
}

func defaultFiles() map[string]string {
	return map[string]string{
		"patients.csv":   patientsCSV,
		"treatments.csv": treatmentsCSV,
		"articles.csv":   articlesCSV,
	}
}

func hasTriple(triples *model.TripleSet, tr model.Triple) bool {
	return triples.Contains(tr)
}

func TestEngine_PatientRow(t *testing.T) {
	result := runEngine(t, testMapping, defaultFiles(), 1)

	subj := model.Node{ID: "Patient_P1", Space: model.SpaceResource}
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: subj, Predicate: vocab.PredType,
		Object: model.NodeTerm("Patient", model.SpaceOntology),
	}), "patient type assertion")
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: subj, Predicate: vocab.PredLabel,
		Object: model.LiteralTerm(model.StringValue("Patient P1")),
	}), "patient display label")
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: subj, Predicate: "sex",
		Object: model.LiteralTerm(model.StringValue("F")),
	}), "datatype property")

	// The diagnosis date parses as a date and is tagged accordingly.
	var foundDate bool
	for _, tr := range result.Triples.All() {
		if tr.Subject == subj && tr.Predicate == "diagnosis_date" {
			foundDate = true
			require.NotNil(t, tr.Object.Literal)
			assert.Equal(t, model.KindDate, tr.Object.Literal.Kind)
			assert.Equal(t, vocab.XSDDate, tr.Object.Datatype)
		}
	}
	assert.True(t, foundDate, "diagnosis_date triple present")
}

func TestEngine_ObjectLinks(t *testing.T) {
	result := runEngine(t, testMapping, defaultFiles(), 1)

	subj := model.Node{ID: "Patient_P1", Space: model.SpaceResource}

	// Fixed reference: one shared ontology-space node.
	disease := model.Node{ID: "LungCancer", Space: model.SpaceOntology}
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: subj, Predicate: "has_disease", Object: model.Term{Node: &disease},
	}))
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: disease, Predicate: vocab.PredType,
		Object: model.NodeTerm("LungCancer", model.SpaceOntology),
	}))

	// Parameterized reference: row-scoped resource, concept from the
	// template's leading token.
	histology := model.Node{ID: "Histology_adenocarcinoma", Space: model.SpaceResource}
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: subj, Predicate: "has_histology", Object: model.Term{Node: &histology},
	}))
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: histology, Predicate: vocab.PredType,
		Object: model.NodeTerm("Histology", model.SpaceOntology),
	}))
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: histology, Predicate: vocab.PredLabel,
		Object: model.LiteralTerm(model.StringValue("Histology adenocarcinoma")),
	}))
}

func TestEngine_SectionsMergeOnSameSubject(t *testing.T) {
	result := runEngine(t, testMapping, defaultFiles(), 1)

	// The treatments section reuses Patient_P1 as its subject. Its link
	// lands on the same node the patients section created; the type
	// assertion exists exactly once.
	subj := model.Node{ID: "Patient_P1", Space: model.SpaceResource}
	drug := model.Node{ID: "Drug_osimertinib", Space: model.SpaceResource}
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: subj, Predicate: "treated_with", Object: model.Term{Node: &drug},
	}))

	typeCount := 0
	for _, tr := range result.Triples.All() {
		if tr.Subject == subj && tr.Predicate == vocab.PredType {
			typeCount++
		}
	}
	assert.Equal(t, 1, typeCount, "one type assertion despite two sections")
}

func TestEngine_TextMining(t *testing.T) {
	result := runEngine(t, testMapping, defaultFiles(), 1)

	article := model.Node{ID: "Article_A1", Space: model.SpaceResource}
	mention := model.Node{ID: "Drug_Osimertinib", Space: model.SpaceResource}

	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: article, Predicate: vocab.PredRefersTo, Object: model.Term{Node: &mention},
	}), "article refers to the mined drug")
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: mention, Predicate: vocab.PredType,
		Object: model.NodeTerm("Drug", model.SpaceOntology),
	}))
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: mention, Predicate: vocab.PredLabel,
		Object: model.LiteralTerm(model.StringValue("Drug Osimertinib")),
	}))

	biomarker := model.Node{ID: "Biomarker_EGFR", Space: model.SpaceResource}
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: article, Predicate: vocab.PredRefersTo, Object: model.Term{Node: &biomarker},
	}))

	require.Len(t, result.Report.Sections, 3)
	articles := result.Report.Sections[2]
	assert.Equal(t, "articles", articles.Name)
	assert.GreaterOrEqual(t, articles.Mentions, 2)
	assert.Equal(t, []int{67}, articles.Ages)
}

func TestEngine_StatementSequence(t *testing.T) {
	result := runEngine(t, testMapping, defaultFiles(), 1)
	script := emit.Script(result.Statements)

	assert.Contains(t, script, "MERGE (n:Patient {id:'Patient_P1'})")
	assert.Contains(t, script, "SET n.label = 'Patient P1'")
	assert.Contains(t, script, "SET n.sex = 'F'")
	assert.Contains(t, script, "SET n.diagnosis_date = '2020-03-15'")
	assert.Contains(t, script, "MERGE (o:LungCancer {id:'LungCancer'})")
	assert.Contains(t, script, "MERGE (n)-[:HAS_DISEASE]->(o)")
	assert.Contains(t, script, "MERGE (o:Histology {id:'Histology_adenocarcinoma'})")
	assert.Contains(t, script, "MERGE (n)-[:HAS_HISTOLOGY]->(o)")
	assert.Contains(t, script, "MERGE (e:Drug {id:'Drug_Osimertinib'})")
	assert.Contains(t, script, "MERGE (n)-[:REFERS_TO]->(e)")

	// The treatments section has no declared type: the subject still
	// merges, label-less, before its relationship.
	assert.Contains(t, script, "MERGE (n {id:'Patient_P1'})")

	// Within a row, the node merge precedes its property sets.
	lines := strings.Split(script, "\n")
	mergeIdx, setIdx := -1, -1
	for i, line := range lines {
		if line == "MERGE (n:Patient {id:'Patient_P1'})" && mergeIdx < 0 {
			mergeIdx = i
		}
		if line == "SET n.sex = 'F'" && setIdx < 0 {
			setIdx = i
		}
	}
	require.GreaterOrEqual(t, mergeIdx, 0)
	require.Greater(t, setIdx, mergeIdx)
}

func TestEngine_SingleSectionRow(t *testing.T) {
	result := runEngine(t, `
patients:
  file: patients.csv
  subject: Patient_{patient_id}
  type: Patient
  datatype_props:
    age: age
  object_links:
    hasStage: Stage_{stage}
`, map[string]string{
		"patients.csv": "patient_id,age,stage\nP1,63,IV\n",
	}, 1)

	patient := model.Node{ID: "Patient_P1", Space: model.SpaceResource}
	stage := model.Node{ID: "Stage_IV", Space: model.SpaceResource}
	for _, tr := range []model.Triple{
		{Subject: patient, Predicate: vocab.PredType, Object: model.NodeTerm("Patient", model.SpaceOntology)},
		{Subject: patient, Predicate: vocab.PredLabel, Object: model.LiteralTerm(model.StringValue("Patient P1"))},
		{Subject: patient, Predicate: "age", Object: model.LiteralTerm(model.IntValue(63))},
		{Subject: patient, Predicate: "hasStage", Object: model.Term{Node: &stage}},
		{Subject: stage, Predicate: vocab.PredType, Object: model.NodeTerm("Stage", model.SpaceOntology)},
		{Subject: stage, Predicate: vocab.PredLabel, Object: model.LiteralTerm(model.StringValue("Stage IV"))},
	} {
		assert.True(t, result.Triples.Contains(tr), "missing triple %s %s", tr.Subject.ID, tr.Predicate)
	}
	assert.Equal(t, 6, result.Triples.Len(), "no extra triples for this row")

	want := "MERGE (n:Patient {id:'Patient_P1'})\n" +
		"SET n.label = 'Patient P1'\n" +
		"SET n.age = 63\n" +
		"MERGE (o:Stage {id:'Stage_IV'})\n" +
		"SET o.label = 'Stage IV'\n" +
		"MERGE (n)-[:HASSTAGE]->(o)\n"
	assert.Equal(t, want, emit.Script(result.Statements))
}

func TestEngine_MissingLinkColumnIsContained(t *testing.T) {
	files := defaultFiles()
	files["patients.csv"] = "patient_id,sex,diagnosis_date\nP1,F,2020-03-15\n" // no histology column

	result := runEngine(t, testMapping, files, 1)

	patients := result.Report.Sections[0]
	assert.Empty(t, patients.Err, "section keeps running")
	assert.Equal(t, 1, patients.Rows)
	assert.NotEmpty(t, patients.Diagnostics)

	// The row's other emissions survive.
	subj := model.Node{ID: "Patient_P1", Space: model.SpaceResource}
	assert.True(t, hasTriple(result.Triples, model.Triple{
		Subject: subj, Predicate: "sex",
		Object: model.LiteralTerm(model.StringValue("F")),
	}))
	for _, tr := range result.Triples.All() {
		assert.NotEqual(t, "has_histology", tr.Predicate, "failed link must not emit")
	}
}

func TestEngine_BadSubjectTemplateFailsSection(t *testing.T) {
	files := defaultFiles()
	files["treatments.csv"] = "drug\nosimertinib\n" // subject column gone

	result := runEngine(t, testMapping, files, 1)

	treatments := result.Report.Sections[1]
	assert.NotEmpty(t, treatments.Err)
	assert.Equal(t, 0, treatments.Rows)

	// Other sections are unaffected.
	assert.Empty(t, result.Report.Sections[0].Err)
	assert.Empty(t, result.Report.Sections[2].Err)
}

func TestEngine_MissingSourceFailsOnlyItsSection(t *testing.T) {
	files := defaultFiles()
	delete(files, "articles.csv")

	result := runEngine(t, testMapping, files, 1)

	articles := result.Report.Sections[2]
	assert.Contains(t, articles.Err, "not found")
	assert.True(t, result.Triples.Contains(model.Triple{
		Subject:   model.Node{ID: "Patient_P1", Space: model.SpaceResource},
		Predicate: vocab.PredType,
		Object:    model.NodeTerm("Patient", model.SpaceOntology),
	}))
}

func TestEngine_DeterministicAcrossRuns(t *testing.T) {
	first := runEngine(t, testMapping, defaultFiles(), 1)
	second := runEngine(t, testMapping, defaultFiles(), 1)

	ttlA, cypherA := emit.Flush(first.Triples, first.Statements, vocab.Default())
	ttlB, cypherB := emit.Flush(second.Triples, second.Statements, vocab.Default())
	assert.Equal(t, ttlA, ttlB)
	assert.Equal(t, cypherA, cypherB)
}

func TestEngine_WorkerPoolMatchesSequential(t *testing.T) {
	var rows strings.Builder
	rows.WriteString("patient_id,sex,diagnosis_date,histology\n")
	for i := 0; i < 40; i++ {
		rows.WriteString("P")
		rows.WriteString(strings.Repeat("0", 2))
		rows.WriteByte(byte('0' + i%10))
		rows.WriteString(",F,2020-03-15,adenocarcinoma\n")
	}
	files := defaultFiles()
	files["patients.csv"] = rows.String()

	sequential := runEngine(t, testMapping, files, 1)
	parallel := runEngine(t, testMapping, files, 4)

	ttlA, cypherA := emit.Flush(sequential.Triples, sequential.Statements, vocab.Default())
	ttlB, cypherB := emit.Flush(parallel.Triples, parallel.Statements, vocab.Default())
	assert.Equal(t, ttlA, ttlB)
	assert.Equal(t, cypherA, cypherB)
}

func TestEngine_SchemaDiagnostics(t *testing.T) {
	schema, err := ontology.Parse(strings.NewReader(
		"ont:Patient a owl:Class .\nont:Article a owl:Class .\n"))
	require.NoError(t, err)

	cfg, err := mapping.ParseYAML([]byte(`
samples:
  file: samples.csv
  subject: Sample_{sample_id}
  type: Sample
`))
	require.NoError(t, err)

	engine, err := New(Options{
		Mapping: cfg,
		DataDir: writeTestData(t, map[string]string{"samples.csv": "sample_id\nS1\n"}),
		Schema:  schema,
	})
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	samples := result.Report.Sections[0]
	require.NotEmpty(t, samples.Diagnostics)
	assert.Contains(t, samples.Diagnostics[0], "not declared in ontology")
	assert.Empty(t, samples.Err, "undeclared type is advisory only")
}

func TestEngine_CustomLabelOverride(t *testing.T) {
	cfg, err := mapping.ParseYAML([]byte(testMapping))
	require.NoError(t, err)

	engine, err := New(Options{
		Mapping: cfg,
		DataDir: writeTestData(t, defaultFiles()),
	})
	require.NoError(t, err)

	engine.Labeler().Register("Article", func(row model.Row) (string, bool) {
		v, ok := row["article_id"]
		if !ok {
			return "", false
		}
		return "Case report " + v.String(), true
	})

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Triples.Contains(model.Triple{
		Subject:   model.Node{ID: "Article_A1", Space: model.SpaceResource},
		Predicate: vocab.PredLabel,
		Object:    model.LiteralTerm(model.StringValue("Case report A1")),
	}))
}

func TestNew_RequiresSections(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	var cfgErr *model.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
