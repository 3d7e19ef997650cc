// Package main provides the entry point for the graphtext CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/graphtext/cmd/graphtext/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
