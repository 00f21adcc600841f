// Package loopquery detects per-row store reads inside loops.
package loopquery

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects store reads inside loops. Branch content is loaded once
// per operation and indexed by natural key.
var Analyzer = &analysis.Analyzer{
	Name:     "loopquery",
	Doc:      "detects store reads inside loops that should load branch content once",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// readMethods are the ports.Reader methods.
var readMethods = map[string]bool{
	"FindSpace":        true,
	"FindBranch":       true,
	"FindBranchByName": true,
	"ListBranches":     true,
	"CountBranches":    true,
	"ListKeys":         true,
	"FindKey":          true,
	"ListTranslations": true,
	"ListBaseline":     true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.FuncLit:
				// Closures run later; their loops are visited on their own.
				return false
			case *ast.RangeStmt, *ast.ForStmt:
				// Nested loops are reported by their own Preorder visit.
				return false
			case *ast.CallExpr:
				sel, ok := node.Fun.(*ast.SelectorExpr)
				if ok && readMethods[sel.Sel.Name] {
					pass.Reportf(node.Pos(),
						"%s called inside loop: load the branch content once and index it",
						sel.Sel.Name)
				}
			}
			return true
		})
	})

	return nil, nil
}
