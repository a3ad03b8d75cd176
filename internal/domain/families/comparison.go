package families

import (
	"go/token"

	m "gomu.dev/pkg/gomu/internal/model"
)

// binopCmp swaps the ordering operators.
var binopCmp = &Family{
	tag:         m.FamilyBinopCmp,
	runtimeFunc: "BinopCmp",
	variants:    []token.Token{token.LSS, token.LEQ, token.GTR, token.GEQ},
	runtimeOps: map[token.Token]string{
		token.LSS: "Lss",
		token.LEQ: "Leq",
		token.GTR: "Gtr",
		token.GEQ: "Geq",
	},
}
