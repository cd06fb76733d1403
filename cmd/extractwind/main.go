// Package main provides the extractwind CLI: it rewrites Blade templates so
// every class-bearing element carries a generated class, records the
// original utility classes, and builds the matching Tailwind stylesheet.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
