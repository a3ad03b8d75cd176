package mutrt

import "cmp"

// BinopEq is the dispatch point for a rewritten equality expression.
// Coverage is recorded unconditionally; the original operator is evaluated
// unless the active mutation identifier falls inside this site's block, in
// which case the candidate at the matching offset runs instead.
func BinopEq[T comparable](id uint32, left, right T, op EqOp, cfg *Config) bool {
	cfg.covered(id)

	candidates := EqCandidates(op)
	if offset, ok := cfg.mutation(id, len(candidates)); ok {
		return evalEq(candidates[offset], left, right)
	}

	return evalEq(op, left, right)
}

// BinopCmp is the dispatch point for a rewritten ordering expression.
func BinopCmp[T cmp.Ordered](id uint32, left, right T, op CmpOp, cfg *Config) bool {
	cfg.covered(id)

	candidates := CmpCandidates(op)
	if offset, ok := cfg.mutation(id, len(candidates)); ok {
		return evalCmp(candidates[offset], left, right)
	}

	return evalCmp(op, left, right)
}

// BinopArith is the dispatch point for a rewritten integer arithmetic
// expression.
func BinopArith[T Integer](id uint32, left, right T, op ArithOp, cfg *Config) T {
	cfg.covered(id)

	candidates := ArithCandidates(op)
	if offset, ok := cfg.mutation(id, len(candidates)); ok {
		return evalArith(candidates[offset], left, right)
	}

	return evalArith(op, left, right)
}

// BinopBool is the dispatch point for a rewritten logical expression. The
// right operand arrives as a thunk so it is evaluated at most once, and only
// when the selected operator short-circuits into it.
func BinopBool(id uint32, left bool, right func() bool, op BoolOp, cfg *Config) bool {
	cfg.covered(id)

	candidates := BoolCandidates(op)
	if offset, ok := cfg.mutation(id, len(candidates)); ok {
		return evalBool(candidates[offset], left, right)
	}

	return evalBool(op, left, right)
}
