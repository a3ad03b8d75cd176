package domain

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"gomu.dev/pkg/gomu/internal/domain/families"
	m "gomu.dev/pkg/gomu/internal/model"
)

// RuntimeImportPath is the package every instrumented file imports; the
// rewritten operator sites call its dispatch functions.
const RuntimeImportPath = "gomu.dev/pkg/gomu/pkg/mutrt"

// runtimePkgName is the selector used in rewritten expressions.
const runtimePkgName = "mutrt"

// TransformContext carries the surroundings of a node being transformed.
type TransformContext struct {
	// Function is the enclosing function name, empty at package level.
	Function string
	// File is the reporting path of the source being instrumented.
	File m.Path
}

// Transformer rewrites mutable operator sites into runtime dispatch calls,
// registering the candidate mutations of every rewritten site in the
// injected registry. A transformer is not safe for concurrent use; the
// caller serializes files in a fixed order so identifier assignment stays
// reproducible across runs.
type Transformer struct {
	registry *Registry
	info     *types.Info
}

// NewTransformer returns a transformer allocating identifiers from registry.
// When info is non-nil, every candidate site is gated on its resolved
// operand type so the emitted dispatch call satisfies the runtime's generic
// constraints; sites whose type cannot be resolved are left untouched. A nil
// info disables the gate and is only suitable for input that is known to
// use basic integer and boolean operands.
func NewTransformer(registry *Registry, info *types.Info) *Transformer {
	return &Transformer{registry: registry, info: info}
}

// TransformExpr transforms a single expression node. Non-matching nodes come
// back unchanged; matching binary expressions come back as dispatch calls.
// This is the per-node entry point; TransformFile applies it across a file,
// including operands nested inside other rewritten sites.
func (t *Transformer) TransformExpr(fset *token.FileSet, expr ast.Expr, ctx TransformContext) ast.Expr {
	binExpr, ok := expr.(*ast.BinaryExpr)
	if !ok {
		return expr
	}

	call, err := t.rewriteBinary(fset, binExpr, ctx, t.operandType(binExpr))
	if err != nil || call == nil {
		return expr
	}

	return call
}

// TransformFile rewrites every matching operator site in the parsed file and
// returns the number of rewritten sites. The runtime import is added when at
// least one site was rewritten.
//
// Sites are replaced on the way back up the tree, after their operands have
// been visited, so a site nested inside another site's operand ends up
// instrumented in the emitted call rather than silently reverted. Operand
// types are resolved on the way down, while the operands are still the
// expressions the type checker saw.
func (t *Transformer) TransformFile(fset *token.FileSet, file *ast.File, path m.Path) (int, error) {
	sites := 0
	funcStack := make([]string, 0, 8)
	siteTypes := make(map[*ast.BinaryExpr]types.Type)

	var firstErr error

	astutil.Apply(file,
		func(c *astutil.Cursor) bool {
			if firstErr != nil {
				return false
			}

			switch node := c.Node().(type) {
			case *ast.FuncDecl:
				funcStack = append(funcStack, node.Name.Name)

			case *ast.GenDecl:
				// Constant declarations must stay constant expressions.
				if node.Tok == token.CONST {
					return false
				}

			case *ast.ArrayType:
				// Array lengths are constant expressions too; the element
				// type is still visited through the enclosing declaration.
				return arrayLenSafe(c)

			case *ast.BinaryExpr:
				if t.info != nil {
					siteTypes[node] = t.operandType(node)
				}
			}

			return true
		},
		func(c *astutil.Cursor) bool {
			switch node := c.Node().(type) {
			case *ast.FuncDecl:
				funcStack = funcStack[:len(funcStack)-1]

			case *ast.BinaryExpr:
				if firstErr != nil {
					return false
				}

				ctx := TransformContext{Function: currentFunc(funcStack), File: path}

				call, err := t.rewriteBinary(fset, node, ctx, siteTypes[node])
				if err != nil {
					firstErr = err
					return false
				}

				if call != nil {
					c.Replace(call)
					sites++
				}
			}

			return true
		},
	)

	if firstErr != nil {
		return 0, firstErr
	}

	if sites > 0 {
		astutil.AddImport(fset, file, RuntimeImportPath)
	}

	return sites, nil
}

func currentFunc(stack []string) string {
	if len(stack) == 0 {
		return ""
	}

	return stack[len(stack)-1]
}

// arrayLenSafe skips the constant length expression of an array type while
// keeping sibling nodes reachable. astutil cannot descend selectively, so
// array types with a length are skipped wholesale; their element types hold
// no mutable operators in practice.
func arrayLenSafe(c *astutil.Cursor) bool {
	arr, ok := c.Node().(*ast.ArrayType)
	if !ok {
		return true
	}

	return arr.Len == nil
}

// rewriteBinary matches the node against the known families and, on a
// match, registers one mutation per candidate operator and builds the
// replacement dispatch call. A nil call with a nil error means the node is
// not a mutable site.
func (t *Transformer) rewriteBinary(fset *token.FileSet, binExpr *ast.BinaryExpr, ctx TransformContext, typ types.Type) (*ast.CallExpr, error) {
	family := families.Match(binExpr.Op)
	if family == nil {
		return nil, nil
	}

	// All-literal expressions stay untouched: rewriting them would turn
	// typed constant contexts into runtime calls.
	if isLiteral(binExpr.X) && isLiteral(binExpr.Y) {
		return nil, nil
	}

	// The arithmetic dispatch is integer-only; string concatenation also
	// spells +. The literal case is caught even without type information.
	if binExpr.Op == token.ADD && (isStringLiteral(binExpr.X) || isStringLiteral(binExpr.Y)) {
		return nil, nil
	}

	if !t.familyAllowed(family, typ) {
		return nil, nil
	}

	if err := validateCandidateCount(family, binExpr.Op); err != nil {
		return nil, err
	}

	candidates := family.Candidates(binExpr.Op)
	if len(candidates) == 0 {
		return nil, nil
	}

	position := fset.Position(binExpr.OpPos)
	entries := make([]m.MutationMeta, 0, len(candidates))

	for _, candidate := range candidates {
		entries = append(entries, m.MutationMeta{
			Function:   ctx.Function,
			Family:     family.Tag(),
			OriginalOp: family.Render(binExpr.Op),
			MutatedOp:  family.Render(candidate),
			File:       ctx.File,
			Line:       position.Line,
			Column:     position.Column,
		})
	}

	base := t.registry.Register(entries)

	return dispatchCall(family, base, binExpr), nil
}

// familyAllowed reports whether the site's operand type satisfies the
// generic constraint of the family's dispatch function. Comparisons over
// slices, maps, funcs and interfaces, and arithmetic over floats, complex
// numbers or strings all compile as operators but not as instantiations of
// the runtime generics, so those sites must stay untouched. Unresolvable
// types fail closed: skipping a site costs one mutant, instrumenting it
// wrongly breaks the whole instrumented build.
func (t *Transformer) familyAllowed(family *families.Family, typ types.Type) bool {
	if t.info == nil {
		return true
	}

	if typ == nil {
		return false
	}

	switch family.Tag() {
	case m.FamilyBinopEq:
		return strictlyComparable(typ)
	case m.FamilyBinopCmp:
		return basicWithInfo(typ, types.IsOrdered)
	case m.FamilyBinopArith:
		return basicWithInfo(typ, types.IsInteger)
	case m.FamilyBinopBool:
		return basicWithInfo(typ, types.IsBoolean)
	}

	return false
}

// operandType resolves the site's element type, preferring whichever
// operand is not untyped nil. Untyped constants collapse to their default
// type, matching the instantiation the emitted call will get.
func (t *Transformer) operandType(binExpr *ast.BinaryExpr) types.Type {
	if t.info == nil {
		return nil
	}

	for _, operand := range []ast.Expr{binExpr.X, binExpr.Y} {
		tv, ok := t.info.Types[operand]
		if !ok || tv.Type == nil {
			continue
		}

		typ := types.Default(tv.Type)
		if !validOperandType(typ) {
			continue
		}

		return typ
	}

	return nil
}

func validOperandType(typ types.Type) bool {
	basic, ok := typ.Underlying().(*types.Basic)
	if !ok {
		return true
	}

	return basic.Kind() != types.Invalid && basic.Kind() != types.UntypedNil
}

func basicWithInfo(typ types.Type, want types.BasicInfo) bool {
	basic, ok := typ.Underlying().(*types.Basic)
	if !ok {
		return false
	}

	return basic.Info()&want != 0
}

// strictlyComparable mirrors the strict comparability the comparable
// constraint demands: interfaces compare at runtime but do not instantiate
// a comparable type parameter, so they are excluded along with every type
// containing one.
func strictlyComparable(typ types.Type) bool {
	switch under := typ.Underlying().(type) {
	case *types.Basic:
		return under.Kind() != types.Invalid && under.Kind() != types.UntypedNil
	case *types.Pointer, *types.Chan:
		return true
	case *types.Array:
		return strictlyComparable(under.Elem())
	case *types.Struct:
		for i := range under.NumFields() {
			if !strictlyComparable(under.Field(i).Type()) {
				return false
			}
		}

		return true
	}

	return false
}

// dispatchCall builds the replacement expression:
//
//	mutrt.BinopXxx(<base>, <left>, <right>, mutrt.<Op>, mutrt.Default())
//
// Arguments are evaluated by Go in source order, so the left operand is
// still evaluated before the right one, each exactly once. For thunked
// families the right operand moves into a closure instead.
func dispatchCall(family *families.Family, base m.MutationID, binExpr *ast.BinaryExpr) *ast.CallExpr {
	right := binExpr.Y
	if family.ThunkRight() {
		right = thunk(binExpr.Y)
	}

	return &ast.CallExpr{
		Fun: runtimeSelector(family.RuntimeFunc()),
		Args: []ast.Expr{
			&ast.BasicLit{Kind: token.INT, Value: strconv.FormatUint(uint64(base), 10)},
			binExpr.X,
			right,
			runtimeSelector(family.RuntimeOp(binExpr.Op)),
			&ast.CallExpr{Fun: runtimeSelector("Default")},
		},
	}
}

func runtimeSelector(name string) *ast.SelectorExpr {
	return &ast.SelectorExpr{
		X:   ast.NewIdent(runtimePkgName),
		Sel: ast.NewIdent(name),
	}
}

// thunk wraps an expression into func() bool { return expr }.
func thunk(expr ast.Expr) *ast.FuncLit {
	return &ast.FuncLit{
		Type: &ast.FuncType{
			Params: &ast.FieldList{},
			Results: &ast.FieldList{
				List: []*ast.Field{{Type: ast.NewIdent("bool")}},
			},
		},
		Body: &ast.BlockStmt{
			List: []ast.Stmt{
				&ast.ReturnStmt{Results: []ast.Expr{expr}},
			},
		},
	}
}

func isStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}

func isLiteral(expr ast.Expr) bool {
	switch node := expr.(type) {
	case *ast.BasicLit:
		return true
	case *ast.UnaryExpr:
		return isLiteral(node.X)
	case *ast.ParenExpr:
		return isLiteral(node.X)
	}

	return false
}

// validateCandidateCount guards the registry against a family handing out a
// candidate list that disagrees with its variant count. A violation is a bug
// in a family, never a property of the code being instrumented.
func validateCandidateCount(family *families.Family, op token.Token) error {
	want := len(family.Variants()) - 1
	if got := len(family.Candidates(op)); got != want {
		return fmt.Errorf("family %s: %d candidates for %s, want %d", family.Tag(), got, op, want)
	}

	return nil
}
