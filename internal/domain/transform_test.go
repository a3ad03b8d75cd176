package domain

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	m "gomu.dev/pkg/gomu/internal/model"
)

func transformSource(t *testing.T, src string) (string, int, *Registry) {
	t.Helper()

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "main.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	info := &types.Info{Types: make(map[ast.Expr]types.TypeAndValue)}
	config := types.Config{Importer: importer.Default(), Error: func(error) {}}
	_, _ = config.Check("main", fset, []*ast.File{file}, info)

	registry := NewRegistry()
	transformer := NewTransformer(registry, info)

	sites, err := transformer.TransformFile(fset, file, m.Path("main.go"))
	if err != nil {
		t.Fatalf("TransformFile() error = %v", err)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		t.Fatalf("format error: %v", err)
	}

	return buf.String(), sites, registry
}

// normalize collapses all whitespace runs to single spaces so assertions do
// not depend on how the printer folds synthesized nodes across lines.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestTransformFile_RewritesEquality(t *testing.T) {
	src := `package main

func AreEqual(a, b int) bool {
	return a == b
}
`

	output, sites, registry := transformSource(t, src)

	if sites != 1 {
		t.Fatalf("sites = %d, want 1", sites)
	}

	if !strings.Contains(output, "mutrt.BinopEq(1, a, b, mutrt.Eq, mutrt.Default())") {
		t.Fatalf("output missing dispatch call:\n%s", output)
	}

	if !strings.Contains(output, `"gomu.dev/pkg/gomu/pkg/mutrt"`) {
		t.Fatalf("output missing runtime import:\n%s", output)
	}

	if registry.Len() != 1 {
		t.Fatalf("registry.Len() = %d, want 1", registry.Len())
	}

	meta, ok := registry.Lookup(1)
	if !ok {
		t.Fatalf("mutation 1 not registered")
	}

	if meta.OriginalOp != "==" || meta.MutatedOp != "!=" {
		t.Fatalf("meta ops = %s -> %s, want == -> !=", meta.OriginalOp, meta.MutatedOp)
	}

	if meta.Function != "AreEqual" {
		t.Fatalf("meta function = %q, want AreEqual", meta.Function)
	}

	if meta.Base != 1 {
		t.Fatalf("meta base = %d, want 1", meta.Base)
	}
}

func TestTransformFile_ContiguousBlocksPerSite(t *testing.T) {
	src := `package main

func Calc(a, b int) int {
	if a < b {
		return a + b
	}
	return a - b
}
`

	output, sites, registry := transformSource(t, src)

	if sites != 3 {
		t.Fatalf("sites = %d, want 3", sites)
	}

	// First site (a < b) has three candidates, so the additions start at 4.
	if registry.Len() != 3+4+4 {
		t.Fatalf("registry.Len() = %d, want 11", registry.Len())
	}

	for _, want := range []string{
		"mutrt.BinopCmp(1, a, b, mutrt.Lss, mutrt.Default())",
		"mutrt.BinopArith(4, a, b, mutrt.Add, mutrt.Default())",
		"mutrt.BinopArith(8, a, b, mutrt.Sub, mutrt.Default())",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}

	// Every entry of a block carries the block's first identifier as base.
	for id := m.MutationID(4); id <= 7; id++ {
		meta, ok := registry.Lookup(id)
		if !ok {
			t.Fatalf("mutation %d not registered", id)
		}

		if meta.Base != 4 {
			t.Fatalf("mutation %d base = %d, want 4", id, meta.Base)
		}
	}
}

func TestTransformFile_ThunksLogicalRight(t *testing.T) {
	src := `package main

func Both(a, b bool) bool {
	return a && b
}
`

	output, sites, _ := transformSource(t, src)

	if sites != 1 {
		t.Fatalf("sites = %d, want 1", sites)
	}

	want := "mutrt.BinopBool(1, a, func() bool { return b }, mutrt.And, mutrt.Default())"
	if !strings.Contains(normalize(output), want) {
		t.Fatalf("output missing thunked dispatch call:\n%s", output)
	}
}

func TestTransformFile_NestedOperands(t *testing.T) {
	src := `package main

func Check(a, b, c int) bool {
	return a+b == c
}
`

	output, sites, registry := transformSource(t, src)

	if sites != 2 {
		t.Fatalf("sites = %d, want 2", sites)
	}

	// The inner site registers first and its rewrite must survive as an
	// operand of the outer dispatch call.
	want := "mutrt.BinopEq(5, mutrt.BinopArith(1, a, b, mutrt.Add, mutrt.Default()), c, mutrt.Eq, mutrt.Default())"
	if !strings.Contains(normalize(output), want) {
		t.Fatalf("output missing nested dispatch call:\n%s", output)
	}

	if registry.Len() != 4+1 {
		t.Fatalf("registry.Len() = %d, want 5", registry.Len())
	}
}

func TestTransformFile_NestedSitesInsideLogical(t *testing.T) {
	src := `package main

func BothEqual(a, b, c, d int) bool {
	return a == b && c == d
}
`

	output, sites, registry := transformSource(t, src)

	if sites != 3 {
		t.Fatalf("sites = %d, want 3", sites)
	}

	if registry.Len() != 3 {
		t.Fatalf("registry.Len() = %d, want 3", registry.Len())
	}

	// Both comparisons stay instrumented inside the logical site; the right
	// one ends up inside the thunk.
	want := "mutrt.BinopBool(3, mutrt.BinopEq(1, a, b, mutrt.Eq, mutrt.Default()), " +
		"func() bool { return mutrt.BinopEq(2, c, d, mutrt.Eq, mutrt.Default()) }, mutrt.And, mutrt.Default())"
	if !strings.Contains(normalize(output), want) {
		t.Fatalf("output missing fully instrumented expression:\n%s", output)
	}
}

func TestTransformFile_SkipsConstDecls(t *testing.T) {
	src := `package main

const size = 4 + 4

var total = size
`

	output, sites, _ := transformSource(t, src)

	if sites != 0 {
		t.Fatalf("sites = %d, want 0", sites)
	}

	if strings.Contains(output, "mutrt") {
		t.Fatalf("constant expression was rewritten:\n%s", output)
	}
}

func TestTransformFile_SkipsAllLiteral(t *testing.T) {
	src := `package main

func F() int {
	x := 1 + 2
	return x
}
`

	_, sites, _ := transformSource(t, src)

	if sites != 0 {
		t.Fatalf("sites = %d, want 0", sites)
	}
}

func TestTransformFile_SkipsStringConcat(t *testing.T) {
	src := `package main

func Greet(name string) string {
	prefix := "hello " + name
	return prefix + name
}
`

	output, sites, _ := transformSource(t, src)

	if sites != 0 {
		t.Fatalf("sites = %d, want 0", sites)
	}

	if strings.Contains(output, "mutrt") {
		t.Fatalf("string concatenation was rewritten:\n%s", output)
	}
}

func TestTransformFile_SkipsFloatArithmetic(t *testing.T) {
	src := `package main

func Scale(x float64) float64 {
	return x * 2.5
}
`

	output, sites, _ := transformSource(t, src)

	if sites != 0 {
		t.Fatalf("sites = %d, want 0", sites)
	}

	if strings.Contains(output, "mutrt") {
		t.Fatalf("float arithmetic was rewritten:\n%s", output)
	}
}

func TestTransformFile_SkipsNonComparableNilChecks(t *testing.T) {
	src := `package main

func IsEmpty(s []int) bool {
	return s == nil
}

func HasKeys(m map[string]int) bool {
	return m != nil
}
`

	output, sites, _ := transformSource(t, src)

	if sites != 0 {
		t.Fatalf("sites = %d, want 0", sites)
	}

	if strings.Contains(output, "mutrt") {
		t.Fatalf("non-comparable comparison was rewritten:\n%s", output)
	}
}

func TestTransformFile_SkipsInterfaceEquality(t *testing.T) {
	src := `package main

func Same(a, b interface{}) bool {
	return a == b
}
`

	_, sites, _ := transformSource(t, src)

	if sites != 0 {
		t.Fatalf("sites = %d, want 0", sites)
	}
}

func TestTransformFile_RewritesPointerNilCheck(t *testing.T) {
	src := `package main

func IsSet(p *int) bool {
	return p != nil
}
`

	output, sites, _ := transformSource(t, src)

	if sites != 1 {
		t.Fatalf("sites = %d, want 1", sites)
	}

	if !strings.Contains(output, "mutrt.BinopEq(1, p, nil, mutrt.Ne, mutrt.Default())") {
		t.Fatalf("pointer nil check was not rewritten:\n%s", output)
	}
}

func TestTransformFile_RewritesStringOrdering(t *testing.T) {
	src := `package main

func Less(a, b string) bool {
	return a < b
}
`

	output, sites, _ := transformSource(t, src)

	if sites != 1 {
		t.Fatalf("sites = %d, want 1", sites)
	}

	if !strings.Contains(output, "mutrt.BinopCmp(1, a, b, mutrt.Lss, mutrt.Default())") {
		t.Fatalf("string ordering was not rewritten:\n%s", output)
	}
}

func TestTransformFile_SkipsArrayLengths(t *testing.T) {
	src := `package main

func F() int {
	var a [2 + 3]int
	return len(a)
}
`

	_, sites, _ := transformSource(t, src)

	if sites != 0 {
		t.Fatalf("sites = %d, want 0", sites)
	}
}

func TestTransformFile_RecordsPosition(t *testing.T) {
	src := `package main

func F(a, b int) bool {
	return a == b
}
`

	_, _, registry := transformSource(t, src)

	meta, ok := registry.Lookup(1)
	if !ok {
		t.Fatalf("mutation 1 not registered")
	}

	if meta.Line != 4 {
		t.Fatalf("meta line = %d, want 4", meta.Line)
	}

	if meta.Column == 0 {
		t.Fatalf("meta column = 0, want operator column")
	}

	if meta.File != m.Path("main.go") {
		t.Fatalf("meta file = %s, want main.go", meta.File)
	}
}

func TestTransformFile_OutputReparses(t *testing.T) {
	src := `package main

func Mixed(a, b int, ok bool) bool {
	return a+b > 0 && ok || a%2 == 0
}
`

	output, sites, _ := transformSource(t, src)

	if sites == 0 {
		t.Fatalf("expected rewritten sites")
	}

	if _, err := parser.ParseFile(token.NewFileSet(), "main.go", output, parser.ParseComments); err != nil {
		t.Fatalf("instrumented output does not parse: %v\n%s", err, output)
	}
}

func TestTransformExpr_NonBinaryUnchanged(t *testing.T) {
	registry := NewRegistry()
	transformer := NewTransformer(registry, nil)

	expr := ast.NewIdent("x")
	result := transformer.TransformExpr(token.NewFileSet(), expr, TransformContext{})

	if result != expr {
		t.Fatalf("non-binary expression was replaced")
	}

	if registry.Len() != 0 {
		t.Fatalf("registry.Len() = %d, want 0", registry.Len())
	}
}

func TestTransformExpr_RewritesBinary(t *testing.T) {
	registry := NewRegistry()
	transformer := NewTransformer(registry, nil)

	expr := &ast.BinaryExpr{
		X:  ast.NewIdent("a"),
		Op: token.EQL,
		Y:  ast.NewIdent("b"),
	}

	result := transformer.TransformExpr(token.NewFileSet(), expr, TransformContext{Function: "F", File: "f.go"})

	call, ok := result.(*ast.CallExpr)
	if !ok {
		t.Fatalf("result is %T, want *ast.CallExpr", result)
	}

	if len(call.Args) != 5 {
		t.Fatalf("dispatch call has %d args, want 5", len(call.Args))
	}

	if registry.Len() != 1 {
		t.Fatalf("registry.Len() = %d, want 1", registry.Len())
	}
}
