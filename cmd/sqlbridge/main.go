// Package main provides the sqlbridge CLI, a thin shell over pkg/db for
// poking at a configured database: ping it, read tables with typed columns,
// delete rows, run raw statements.
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
