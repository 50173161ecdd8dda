// Command smallctl is a thin demonstration harness over the SmallTable
// revision engine: it opens (or creates) a SQLite-backed repository file
// and drives it through the client façade. It carries none of the engine's
// invariants itself — see SPEC_FULL.md §4.3.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
