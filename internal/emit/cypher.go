package emit

import (
	"strings"

	"github.com/oncokg/oncograph/internal/model"
)

// Script renders the statement sequence as a Cypher change script, one
// statement per line, in emission order. MERGE carries the idempotency:
// the import tool can replay the script any number of times.
func Script(statements []model.Statement) string {
	var b strings.Builder
	for _, st := range statements {
		b.WriteString(Line(st))
		b.WriteByte('\n')
	}
	return b.String()
}

// Line renders a single statement.
func Line(st model.Statement) string {
	switch st.Kind {
	case model.StatementMergeNode:
		if st.Label == "" {
			return "MERGE (" + st.Var + " {id:'" + escape(st.ID) + "'})"
		}
		return "MERGE (" + st.Var + ":" + st.Label + " {id:'" + escape(st.ID) + "'})"
	case model.StatementSetProperty:
		return "SET " + st.Var + "." + st.Property + " = " + cypherValue(*st.Value)
	case model.StatementMergeRelationship:
		return "MERGE (" + st.FromVar + ")-[:" + st.Label + "]->(" + st.ToVar + ")"
	default:
		return ""
	}
}

func cypherValue(v model.Value) string {
	switch v.Kind {
	case model.KindInt, model.KindFloat:
		return v.String()
	default:
		return "'" + escape(v.String()) + "'"
	}
}

var cypherEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func escape(s string) string {
	return cypherEscaper.Replace(s)
}
