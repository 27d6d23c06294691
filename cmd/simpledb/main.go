// Command simpledb is an operational driver for the engine: load a
// catalog file, scan a table, or bulk-insert a CSV. It is not a SQL
// shell — parsing and planning are out of scope for this core.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
