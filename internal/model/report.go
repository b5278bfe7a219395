package model

import "time"

// RunReport summarizes one mapping-engine run: what each section produced
// and which rows or fields were skipped. It is diagnostic output alongside
// the triples and statements, never an input to them.
type RunReport struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Sections   []SectionReport `json:"sections"`

	Triples    int `json:"triples"`
	Statements int `json:"statements"`
}

// SectionReport covers one mapping section.
type SectionReport struct {
	Name   string `json:"name"`
	Source string `json:"source"`

	Rows        int `json:"rows"`
	RowsSkipped int `json:"rows_skipped"`
	Mentions    int `json:"mentions,omitempty"`

	// Ages collects auxiliary "N year(s) old" mentions found during text
	// mining. Metadata only; not wired into triple emission.
	Ages []int `json:"ages,omitempty"`

	// NLPEntities holds results from the external NER backend, when one is
	// configured and reachable. Reported separately from the deterministic
	// extraction.
	NLPEntities []NLPEntity `json:"nlp_entities,omitempty"`

	// Diagnostics lists contained row/field failures, one line each.
	Diagnostics []string `json:"diagnostics,omitempty"`

	// Err is set when the whole section failed (e.g. missing source file).
	Err string `json:"error,omitempty"`
}

// AddDiagnostic appends a contained-failure note to the section.
func (s *SectionReport) AddDiagnostic(msg string) {
	s.Diagnostics = append(s.Diagnostics, msg)
}
