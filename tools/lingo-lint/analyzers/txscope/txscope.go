// Package txscope detects use of a store inside its own transaction callback.
//
// The SQLite store runs on a single connection. While WithTx holds it, any
// query issued through the store itself blocks until the transaction ends,
// which never happens.
package txscope

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports references to the receiver of a WithTx call from inside
// the callback passed to it.
var Analyzer = &analysis.Analyzer{
	Name:     "txscope",
	Doc:      "detects use of a store inside its own WithTx callback",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "WithTx" {
			return
		}
		store := types.ExprString(sel.X)

		for _, arg := range call.Args {
			fn, ok := arg.(*ast.FuncLit)
			if !ok {
				continue
			}
			reportUses(pass, fn.Body, store)
		}
	})

	return nil, nil
}

// reportUses reports every expression in body that spells the store
// expression.
func reportUses(pass *analysis.Pass, body *ast.BlockStmt, store string) {
	ast.Inspect(body, func(n ast.Node) bool {
		switch expr := n.(type) {
		case *ast.Ident, *ast.SelectorExpr:
			if types.ExprString(expr.(ast.Expr)) == store {
				pass.Reportf(expr.Pos(), "%s used inside %s.WithTx: use the transaction", store, store)
				return false
			}
		}
		return true
	})
}
