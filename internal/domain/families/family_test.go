package families

import (
	"go/token"
	"slices"
	"testing"

	m "gomu.dev/pkg/gomu/internal/model"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		op   token.Token
		want m.FamilyTag
	}{
		{token.EQL, m.FamilyBinopEq},
		{token.NEQ, m.FamilyBinopEq},
		{token.LSS, m.FamilyBinopCmp},
		{token.GEQ, m.FamilyBinopCmp},
		{token.ADD, m.FamilyBinopArith},
		{token.REM, m.FamilyBinopArith},
		{token.LAND, m.FamilyBinopBool},
		{token.LOR, m.FamilyBinopBool},
	}

	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			family := Match(tc.op)
			if family == nil {
				t.Fatalf("Match(%s) = nil", tc.op)
			}

			if family.Tag() != tc.want {
				t.Fatalf("Match(%s).Tag() = %s, want %s", tc.op, family.Tag(), tc.want)
			}
		})
	}

	t.Run("non-mutable operators match nothing", func(t *testing.T) {
		for _, op := range []token.Token{token.AND, token.OR, token.XOR, token.SHL, token.ASSIGN} {
			if family := Match(op); family != nil {
				t.Fatalf("Match(%s) = %s, want nil", op, family.Tag())
			}
		}
	})
}

func TestCandidates_ExcludeOriginalKeepOrder(t *testing.T) {
	t.Run("eq family yields the single opposite operator", func(t *testing.T) {
		eq := Match(token.EQL)

		if got := eq.Candidates(token.EQL); !slices.Equal(got, []token.Token{token.NEQ}) {
			t.Fatalf("Candidates(==) = %v, want [!=]", got)
		}

		if got := eq.Candidates(token.NEQ); !slices.Equal(got, []token.Token{token.EQL}) {
			t.Fatalf("Candidates(!=) = %v, want [==]", got)
		}
	})

	t.Run("every family yields K-1 candidates without the original", func(t *testing.T) {
		for _, family := range All() {
			variants := family.Variants()

			for _, op := range variants {
				candidates := family.Candidates(op)

				if len(candidates) != len(variants)-1 {
					t.Fatalf("%s: Candidates(%s) has %d entries, want %d",
						family.Tag(), op, len(candidates), len(variants)-1)
				}

				if slices.Contains(candidates, op) {
					t.Fatalf("%s: Candidates(%s) contains the original", family.Tag(), op)
				}
			}
		}
	})

	t.Run("candidate order follows variant order", func(t *testing.T) {
		cmp := Match(token.GTR)

		want := []token.Token{token.LSS, token.LEQ, token.GEQ}
		if got := cmp.Candidates(token.GTR); !slices.Equal(got, want) {
			t.Fatalf("Candidates(>) = %v, want %v", got, want)
		}
	})
}

func TestRuntimeOpNames(t *testing.T) {
	for _, family := range All() {
		for _, op := range family.Variants() {
			if family.RuntimeOp(op) == "" {
				t.Fatalf("%s: no runtime constant for %s", family.Tag(), op)
			}
		}
	}
}

func TestRender(t *testing.T) {
	eq := Match(token.EQL)

	if got := eq.Render(token.EQL); got != "==" {
		t.Fatalf("Render(EQL) = %q, want %q", got, "==")
	}

	if got := eq.Render(token.NEQ); got != "!=" {
		t.Fatalf("Render(NEQ) = %q, want %q", got, "!=")
	}
}
