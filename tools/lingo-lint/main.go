// lingo-lint is a custom static analyzer for lingo-core data access patterns.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/lingo-core/tools/lingo-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
