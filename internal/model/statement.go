package model

// StatementKind classifies a property-graph mutation.
type StatementKind string

const (
	StatementMergeNode         StatementKind = "merge_node"
	StatementSetProperty       StatementKind = "set_property"
	StatementMergeRelationship StatementKind = "merge_relationship"
)

// Statement is one line of the property-graph change script. Statements
// keep their emission order: within a row's block a node is merged before
// properties are set on it or relationships attached to it. No ordering
// across rows is implied, and repeated merges of the same node or
// relationship are idempotent by construction on the consumer side, so the
// engine never deduplicates statements.
type Statement struct {
	Kind StatementKind

	// Var is the query variable bound to the node ("n" for the row
	// subject, "o" for link objects, "e" for text mentions).
	Var string

	// Label is the node label for merge_node, or the relationship type for
	// merge_relationship.
	Label string

	// ID is the node identifier for merge_node.
	ID string

	// Property and Value carry a set_property assignment.
	Property string
	Value    *Value

	// FromVar and ToVar name the endpoints of a merge_relationship.
	FromVar string
	ToVar   string
}

// MergeNode builds a merge-node statement.
func MergeNode(varName, label, id string) Statement {
	return Statement{Kind: StatementMergeNode, Var: varName, Label: label, ID: id}
}

// SetProperty builds a set-property statement.
func SetProperty(varName, property string, v Value) Statement {
	return Statement{Kind: StatementSetProperty, Var: varName, Property: property, Value: &v}
}

// MergeRelationship builds a merge-relationship statement.
func MergeRelationship(fromVar, relType, toVar string) Statement {
	return Statement{Kind: StatementMergeRelationship, Label: relType, FromVar: fromVar, ToVar: toVar}
}
