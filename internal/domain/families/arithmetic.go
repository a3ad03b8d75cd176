package families

import (
	"go/token"

	m "gomu.dev/pkg/gomu/internal/model"
)

// binopArith swaps the arithmetic operators. The runtime dispatch is
// constrained to integer operands, where all five operators are defined.
var binopArith = &Family{
	tag:         m.FamilyBinopArith,
	runtimeFunc: "BinopArith",
	variants:    []token.Token{token.ADD, token.SUB, token.MUL, token.QUO, token.REM},
	runtimeOps: map[token.Token]string{
		token.ADD: "Add",
		token.SUB: "Sub",
		token.MUL: "Mul",
		token.QUO: "Quo",
		token.REM: "Rem",
	},
}
