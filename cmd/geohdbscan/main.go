// Package main is the entry point for the geohdbscan CLI.
//
// Usage:
//
//	geohdbscan [flags] <command> [args]
//
// Commands:
//
//	cluster  - Cluster a point file and write per-point labels
//	mst      - Write the mutual reachability MST of a point file
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/TrevorS/geohdbscan/cmd/geohdbscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
