// Package main is the entry point for the codebook application
package main

import (
	"github.com/ethpandaops/codebook/cmd"
)

func main() {
	cmd.Execute()
}
