// Package filter defines the immutable metadata-predicate expression tree.
// Expressions are composed by the caller and compiled to a storage predicate
// only at query time; they are never stored.
package filter

import "github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"

// CompareOp is a relational comparison operator. Only less-than, equal, and
// greater-than orderings are defined.
type CompareOp uint8

const (
	OpLess CompareOp = iota
	OpEqual
	OpGreater
)

func (op CompareOp) String() string {
	switch op {
	case OpLess:
		return "<"
	case OpEqual:
		return "="
	case OpGreater:
		return ">"
	default:
		return "?"
	}
}

// Valid reports whether the operator is one of the defined orderings.
func (op CompareOp) Valid() bool { return op <= OpGreater }

type kind uint8

const (
	kindEq kind = iota
	kindCompare
	kindIn
	kindAnd
	kindOr
)

// Expression is one node of a metadata predicate tree. Use the package
// constructors; the zero value is not a valid expression.
type Expression struct {
	kind     kind
	field    string
	op       CompareOp
	literal  metadata.Value
	literals []metadata.Value
	children []Expression
}

// Eq matches rows whose metadata field equals the literal.
func Eq(field string, value metadata.Value) Expression {
	return Expression{kind: kindEq, field: field, op: OpEqual, literal: value}
}

// Compare matches rows whose metadata field satisfies the relational
// comparison against the literal.
func Compare(op CompareOp, field string, value metadata.Value) Expression {
	return Expression{kind: kindCompare, field: field, op: op, literal: value}
}

// In matches rows whose metadata field equals any of the literals.
func In(field string, values ...metadata.Value) Expression {
	return Expression{kind: kindIn, field: field, literals: values}
}

// And matches rows satisfying every child expression. An empty child list is
// a configuration error, rejected at compile time.
func And(children ...Expression) Expression {
	return Expression{kind: kindAnd, children: children}
}

// Or matches rows satisfying at least one child expression. An empty child
// list is a configuration error, rejected at compile time.
func Or(children ...Expression) Expression {
	return Expression{kind: kindOr, children: children}
}

// IsEq reports whether the node is an equality test.
func (e Expression) IsEq() bool { return e.kind == kindEq }

// IsCompare reports whether the node is a relational comparison.
func (e Expression) IsCompare() bool { return e.kind == kindCompare }

// IsIn reports whether the node is a set-membership test.
func (e Expression) IsIn() bool { return e.kind == kindIn }

// IsAnd reports whether the node is a conjunction.
func (e Expression) IsAnd() bool { return e.kind == kindAnd }

// IsOr reports whether the node is a disjunction.
func (e Expression) IsOr() bool { return e.kind == kindOr }

// Field returns the metadata field name (leaf nodes only).
func (e Expression) Field() string { return e.field }

// Op returns the comparison operator (Eq and Compare nodes).
func (e Expression) Op() CompareOp { return e.op }

// Literal returns the comparison literal (Eq and Compare nodes).
func (e Expression) Literal() metadata.Value { return e.literal }

// Literals returns the membership literals (In nodes).
func (e Expression) Literals() []metadata.Value { return e.literals }

// Children returns the child expressions (And and Or nodes).
func (e Expression) Children() []Expression { return e.children }
