// Package lint provides static analysis checks for puzzle registration.
//
// The analyzer detects registration mistakes that would otherwise panic
// at init time:
//   - Register() called with a literal day outside 1-25
//   - Two Register() calls with the same literal day in one package
//
// Usage:
//
//	go install github.com/example/aoc2019/cmd/ci-lint@latest
//	ci-lint ./...
package lint

import (
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer is the puzzle registration analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "puzzlereg",
	Doc:      "checks for puzzle registration mistakes",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

const maxDay = 25

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	// Literal days already registered in this package
	seen := make(map[int64]token.Pos)

	nodeFilter := []ast.Node{(*ast.CallExpr)(nil)}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if !isRegisterCall(call) || len(call.Args) == 0 {
			return
		}

		day, ok := literalInt(call.Args[0])
		if !ok {
			// Computed days are checked at runtime.
			return
		}

		if day < 1 || day > maxDay {
			pass.Reportf(call.Args[0].Pos(), "Register called with day %d outside 1-%d - will panic at init", day, maxDay)
			return
		}
		if _, dup := seen[day]; dup {
			pass.Reportf(call.Args[0].Pos(), "duplicate registration for day %d - will panic at init", day)
			return
		}
		seen[day] = call.Args[0].Pos()
	})

	return nil, nil
}

// isRegisterCall matches puzzle.Register(...) calls.
func isRegisterCall(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	return pkg.Name == "puzzle" && sel.Sel.Name == "Register"
}

// literalInt extracts an integer literal, allowing a leading minus.
func literalInt(expr ast.Expr) (int64, bool) {
	neg := false
	if unary, ok := expr.(*ast.UnaryExpr); ok && unary.Op == token.SUB {
		neg = true
		expr = unary.X
	}
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}
	v, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
