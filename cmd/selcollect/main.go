// Package main provides the entry point for the selcollect CLI.
// The tool collects System Event Log (SEL) files from servers managed by
// a cloud infrastructure-management platform: it inventories servers,
// triggers SEL generation, and downloads the generated logs.
package main

import (
	"os"

	"selcollect/cmd/selcollect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
