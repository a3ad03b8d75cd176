// Package model defines the data structures for mutation testing.
package model

// MutationID is the process-wide identifier of a single registered mutation.
// Identifiers start at 1 and are assigned in contiguous blocks, one block per
// rewritten call site, one identifier per candidate operator.
type MutationID uint32

// FamilyTag names a mutator family, the closed set of interchangeable
// operators a mutation belongs to.
type FamilyTag string

const (
	// FamilyBinopEq covers the equality operators (==, !=).
	FamilyBinopEq FamilyTag = "binop_eq"
	// FamilyBinopCmp covers the ordering operators (<, <=, >, >=).
	FamilyBinopCmp FamilyTag = "binop_cmp"
	// FamilyBinopArith covers the integer arithmetic operators (+, -, *, /, %).
	FamilyBinopArith FamilyTag = "binop_arith"
	// FamilyBinopBool covers the short-circuit logical operators (&&, ||).
	FamilyBinopBool FamilyTag = "binop_bool"
)

// MutationMeta describes one candidate operator swap at one call site. It is
// written once during instrumentation and immutable afterwards.
type MutationMeta struct {
	// Function is the name of the enclosing function, or empty for
	// package-level expressions.
	Function string `yaml:"function"`
	// Family is the tag of the mutator family the swap belongs to.
	Family FamilyTag `yaml:"family"`
	// OriginalOp is the rendered original operator, e.g. "==".
	OriginalOp string `yaml:"original"`
	// MutatedOp is the rendered candidate operator, e.g. "!=".
	MutatedOp string `yaml:"mutated"`
	// File is the instrumented source file.
	File Path `yaml:"file"`
	// Line and Column locate the operator token in the original source.
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
	// Base is the first identifier of the call-site block this mutation
	// belongs to. The runtime oracle records coverage under the base, so
	// reporting uses it to tell whether the site was reached. Filled in by
	// the registry on registration.
	Base MutationID `yaml:"base"`
}

// Mutation pairs a registered identifier with its metadata.
type Mutation struct {
	ID   MutationID   `yaml:"id"`
	Meta MutationMeta `yaml:"meta"`
}
