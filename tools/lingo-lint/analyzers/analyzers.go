// Package analyzers provides all custom static analyzers for lingo-core.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/lingo-core/tools/lingo-lint/analyzers/loopquery"
	"github.com/ersonp/lingo-core/tools/lingo-lint/analyzers/txscope"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		loopquery.Analyzer,
		txscope.Analyzer,
	}
}
