// Package mutrt is the runtime support library linked into instrumented
// code. Every rewritten operator site calls one of the Binop* functions with
// the site's base mutation identifier; the function records coverage and
// dispatches to either the original operator or the active mutant.
package mutrt

import "cmp"

// Integer constrains the arithmetic family to types where all five
// operators, including %, are defined.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// EqOp is an operator of the equality family.
type EqOp uint8

// Equality family variants, in candidate order.
const (
	Eq EqOp = iota
	Ne
)

// String renders the operator as source text.
func (op EqOp) String() string {
	if op == Eq {
		return "=="
	}

	return "!="
}

// EqVariants returns the equality family in its stable order.
func EqVariants() []EqOp { return []EqOp{Eq, Ne} }

// EqCandidates returns every variant except the original, preserving the
// variant order.
func EqCandidates(original EqOp) []EqOp {
	var candidates []EqOp

	for _, op := range EqVariants() {
		if op != original {
			candidates = append(candidates, op)
		}
	}

	return candidates
}

func evalEq[T comparable](op EqOp, left, right T) bool {
	if op == Eq {
		return left == right
	}

	return left != right
}

// CmpOp is an operator of the ordering family.
type CmpOp uint8

// Ordering family variants, in candidate order.
const (
	Lss CmpOp = iota
	Leq
	Gtr
	Geq
)

// String renders the operator as source text.
func (op CmpOp) String() string {
	switch op {
	case Lss:
		return "<"
	case Leq:
		return "<="
	case Gtr:
		return ">"
	case Geq:
		return ">="
	}

	return "?"
}

// CmpVariants returns the ordering family in its stable order.
func CmpVariants() []CmpOp { return []CmpOp{Lss, Leq, Gtr, Geq} }

// CmpCandidates returns every variant except the original, preserving the
// variant order.
func CmpCandidates(original CmpOp) []CmpOp {
	var candidates []CmpOp

	for _, op := range CmpVariants() {
		if op != original {
			candidates = append(candidates, op)
		}
	}

	return candidates
}

func evalCmp[T cmp.Ordered](op CmpOp, left, right T) bool {
	switch op {
	case Lss:
		return left < right
	case Leq:
		return left <= right
	case Gtr:
		return left > right
	case Geq:
		return left >= right
	}

	return false
}

// ArithOp is an operator of the integer arithmetic family.
type ArithOp uint8

// Arithmetic family variants, in candidate order.
const (
	Add ArithOp = iota
	Sub
	Mul
	Quo
	Rem
)

// String renders the operator as source text.
func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Quo:
		return "/"
	case Rem:
		return "%"
	}

	return "?"
}

// ArithVariants returns the arithmetic family in its stable order.
func ArithVariants() []ArithOp { return []ArithOp{Add, Sub, Mul, Quo, Rem} }

// ArithCandidates returns every variant except the original, preserving the
// variant order.
func ArithCandidates(original ArithOp) []ArithOp {
	var candidates []ArithOp

	for _, op := range ArithVariants() {
		if op != original {
			candidates = append(candidates, op)
		}
	}

	return candidates
}

func evalArith[T Integer](op ArithOp, left, right T) T {
	switch op {
	case Add:
		return left + right
	case Sub:
		return left - right
	case Mul:
		return left * right
	case Quo:
		return left / right
	case Rem:
		return left % right
	}

	return 0
}

// BoolOp is an operator of the short-circuit logical family.
type BoolOp uint8

// Logical family variants, in candidate order.
const (
	And BoolOp = iota
	Or
)

// String renders the operator as source text.
func (op BoolOp) String() string {
	if op == And {
		return "&&"
	}

	return "||"
}

// BoolVariants returns the logical family in its stable order.
func BoolVariants() []BoolOp { return []BoolOp{And, Or} }

// BoolCandidates returns every variant except the original, preserving the
// variant order.
func BoolCandidates(original BoolOp) []BoolOp {
	var candidates []BoolOp

	for _, op := range BoolVariants() {
		if op != original {
			candidates = append(candidates, op)
		}
	}

	return candidates
}

// evalBool takes the right operand as a thunk so the rewritten expression
// keeps Go's short-circuit behaviour: the thunk runs at most once, and only
// when the selected operator needs the right value.
func evalBool(op BoolOp, left bool, right func() bool) bool {
	if op == And {
		if !left {
			return false
		}

		return right()
	}

	if left {
		return true
	}

	return right()
}
