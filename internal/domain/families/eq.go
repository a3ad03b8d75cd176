package families

import (
	"go/token"

	m "gomu.dev/pkg/gomu/internal/model"
)

// binopEq swaps the equality operators. With two members it always yields a
// single candidate per site, making it the reference family for the
// block/offset activation scheme.
var binopEq = &Family{
	tag:         m.FamilyBinopEq,
	runtimeFunc: "BinopEq",
	variants:    []token.Token{token.EQL, token.NEQ},
	runtimeOps: map[token.Token]string{
		token.EQL: "Eq",
		token.NEQ: "Ne",
	},
}
