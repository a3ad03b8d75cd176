package families

import (
	"go/token"

	m "gomu.dev/pkg/gomu/internal/model"
)

// binopBool swaps the short-circuit logical operators. The right operand is
// thunked so the rewritten call keeps the original evaluation order and
// count even when a mutant changes which branch short-circuits.
var binopBool = &Family{
	tag:         m.FamilyBinopBool,
	runtimeFunc: "BinopBool",
	thunkRight:  true,
	variants:    []token.Token{token.LAND, token.LOR},
	runtimeOps: map[token.Token]string{
		token.LAND: "And",
		token.LOR:  "Or",
	},
}
