package model

import (
	"testing"
	"time"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{IntValue(67), "67"},
		{FloatValue(3.2), "3.2"},
		{FloatValue(3.0), "3"},
		{DateValue(time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)), "2020-03-15"},
		{StringValue("EGFR L858R"), "EGFR L858R"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTripleSet_Union(t *testing.T) {
	set := NewTripleSet()
	typeTriple := Triple{
		Subject:   Node{ID: "Patient_P1", Space: SpaceResource},
		Predicate: "rdf:type",
		Object:    NodeTerm("Patient", SpaceOntology),
	}

	set.Add(typeTriple)
	set.Add(typeTriple)
	if set.Len() != 1 {
		t.Errorf("Len() = %d after duplicate Add", set.Len())
	}
	if !set.Contains(typeTriple) {
		t.Error("Contains() = false for stored triple")
	}

	other := NewTripleSet()
	other.Add(typeTriple)
	other.Add(Triple{
		Subject:   Node{ID: "Patient_P1", Space: SpaceResource},
		Predicate: "rdfs:label",
		Object:    LiteralTerm(StringValue("Patient P1")),
	})
	set.Merge(other)
	if set.Len() != 2 {
		t.Errorf("Len() = %d after Merge", set.Len())
	}
}

func TestTripleKey_DistinguishesSpacesAndDatatypes(t *testing.T) {
	resource := Triple{
		Subject:   Node{ID: "X", Space: SpaceResource},
		Predicate: "p",
		Object:    NodeTerm("Y", SpaceResource),
	}
	ontology := Triple{
		Subject:   Node{ID: "X", Space: SpaceResource},
		Predicate: "p",
		Object:    NodeTerm("Y", SpaceOntology),
	}
	if resource.Key() == ontology.Key() {
		t.Error("object space must participate in identity")
	}

	plain := Triple{
		Subject:   Node{ID: "X", Space: SpaceResource},
		Predicate: "p",
		Object:    LiteralTerm(StringValue("2020-03-15")),
	}
	typed := Triple{
		Subject:   Node{ID: "X", Space: SpaceResource},
		Predicate: "p",
		Object:    TypedLiteralTerm(StringValue("2020-03-15"), "xsd:date"),
	}
	if plain.Key() == typed.Key() {
		t.Error("literal datatype must participate in identity")
	}

	intLit := Triple{
		Subject:   Node{ID: "X", Space: SpaceResource},
		Predicate: "age",
		Object:    LiteralTerm(IntValue(63)),
	}
	strLit := Triple{
		Subject:   Node{ID: "X", Space: SpaceResource},
		Predicate: "age",
		Object:    LiteralTerm(StringValue("63")),
	}
	if intLit.Key() == strLit.Key() {
		t.Error("literal kind must participate in identity")
	}

	set := NewTripleSet()
	set.Add(intLit)
	set.Add(strLit)
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want both literal kinds kept", set.Len())
	}
}

func TestTripleSet_AllSorted(t *testing.T) {
	set := NewTripleSet()
	for _, id := range []string{"C", "A", "B"} {
		set.Add(Triple{
			Subject:   Node{ID: id, Space: SpaceResource},
			Predicate: "rdf:type",
			Object:    NodeTerm("Patient", SpaceOntology),
		})
	}
	all := set.All()
	if all[0].Subject.ID != "A" || all[1].Subject.ID != "B" || all[2].Subject.ID != "C" {
		t.Errorf("All() order: %v, %v, %v", all[0].Subject.ID, all[1].Subject.ID, all[2].Subject.ID)
	}
}
