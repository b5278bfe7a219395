package resolve

import (
	"testing"

	"github.com/oncokg/oncograph/internal/model"
)

func TestLabeler_PatientOverride(t *testing.T) {
	l := NewLabeler()
	row := model.Row{"patient_id": model.StringValue("P1")}

	if got := l.LabelFor("Patient", row, "Patient_{patient_id}"); got != "Patient P1" {
		t.Errorf("Expected 'Patient P1', got %q", got)
	}
}

func TestLabeler_GenericLabel(t *testing.T) {
	l := NewLabeler()
	row := model.Row{"drug": model.StringValue("osimertinib")}

	if got := l.LabelFor("Drug", row, "Drug_{drug}"); got != "Drug osimertinib" {
		t.Errorf("Expected 'Drug osimertinib', got %q", got)
	}
}

func TestLabeler_KeepsHyphenatedSurfaces(t *testing.T) {
	l := NewLabeler()

	if got := l.LabelFor("Biomarker", nil, "Biomarker_PD-L1"); got != "Biomarker PD-L1" {
		t.Errorf("Expected hyphen preserved, got %q", got)
	}
}

func TestLabeler_LastSegmentOfIRI(t *testing.T) {
	l := NewLabeler()
	row := model.Row{"id": model.StringValue("X9")}

	got := l.LabelFor("Sample", row, "http://lungkg.org/resource/Sample_{id}")
	if got != "Sample X9" {
		t.Errorf("Expected IRI trimmed to its final segment, got %q", got)
	}
}

func TestLabeler_FallbackOnUnresolvableTemplate(t *testing.T) {
	l := NewLabeler()
	row := model.Row{} // nothing to substitute

	got := l.LabelFor("Mutation", row, "Mutation_{variant}")
	if got != "Mutation" {
		t.Errorf("Expected placeholder stripped in fallback, got %q", got)
	}
}

func TestLabeler_OverrideNeedsItsColumn(t *testing.T) {
	l := NewLabeler()
	row := model.Row{"subject": model.StringValue("S4")}

	// Patient override wants patient_id; without it the generic path runs.
	got := l.LabelFor("Patient", row, "Patient_{subject}")
	if got != "Patient S4" {
		t.Errorf("Expected generic fallback 'Patient S4', got %q", got)
	}
}

func TestLabeler_CustomOverride(t *testing.T) {
	l := NewLabeler()
	l.Register("Mutation", func(row model.Row) (string, bool) {
		gene, ok := row["gene"]
		if !ok {
			return "", false
		}
		variant, ok := row["variant"]
		if !ok {
			return "", false
		}
		return gene.String() + " " + variant.String(), true
	})

	row := model.Row{
		"gene":    model.StringValue("EGFR"),
		"variant": model.StringValue("L858R"),
	}
	if got := l.LabelFor("Mutation", row, "Mutation_{variant}"); got != "EGFR L858R" {
		t.Errorf("Expected custom override label, got %q", got)
	}
}
