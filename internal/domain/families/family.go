// Package families declares the mutator families known to the transform
// pass: for each family its operator set in a stable order, the rendering of
// each operator, and the runtime dispatch function instrumented code calls.
package families

import (
	"go/token"

	m "gomu.dev/pkg/gomu/internal/model"
)

// Family describes one closed set of interchangeable binary operators.
// Families are pure, stateless values; all slices they hand out are copies.
type Family struct {
	tag m.FamilyTag
	// runtimeFunc is the dispatch function in pkg/mutrt, e.g. "BinopEq".
	runtimeFunc string
	// thunkRight marks families whose right operand must be wrapped in a
	// closure to preserve short-circuit evaluation.
	thunkRight bool
	// variants is the exhaustive operator set in candidate order.
	variants []token.Token
	// runtimeOps maps each variant to its constant name in pkg/mutrt.
	runtimeOps map[token.Token]string
}

// Tag returns the family's registry tag, e.g. "binop_eq".
func (f *Family) Tag() m.FamilyTag { return f.tag }

// RuntimeFunc returns the name of the pkg/mutrt dispatch function.
func (f *Family) RuntimeFunc() string { return f.runtimeFunc }

// ThunkRight reports whether the right operand must be deferred.
func (f *Family) ThunkRight() bool { return f.thunkRight }

// Matches reports whether the operator belongs to this family.
func (f *Family) Matches(op token.Token) bool {
	_, ok := f.runtimeOps[op]
	return ok
}

// Variants returns the family's operators in their stable order.
func (f *Family) Variants() []token.Token {
	out := make([]token.Token, len(f.variants))
	copy(out, f.variants)

	return out
}

// Candidates returns every variant except the original, in variant order.
// For a family of size K this is always exactly K-1 operators.
func (f *Family) Candidates(original token.Token) []token.Token {
	var candidates []token.Token

	for _, op := range f.variants {
		if op != original {
			candidates = append(candidates, op)
		}
	}

	return candidates
}

// Render returns the operator's source text, e.g. "==".
func (f *Family) Render(op token.Token) string {
	return op.String()
}

// RuntimeOp returns the pkg/mutrt constant name for the operator, e.g. "Eq".
func (f *Family) RuntimeOp(op token.Token) string {
	return f.runtimeOps[op]
}

// All returns every known family in a fixed order. The order is part of the
// identifier-assignment contract: it never depends on map iteration.
func All() []*Family {
	return []*Family{binopEq, binopCmp, binopArith, binopBool}
}

// Match returns the family owning the operator, or nil when the operator is
// not mutable. Families partition the operator space, so the first match is
// the only one.
func Match(op token.Token) *Family {
	for _, family := range All() {
		if family.Matches(op) {
			return family
		}
	}

	return nil
}
