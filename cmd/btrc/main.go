// Command btrc is the CLI entry point for the transpiler (spec.md §6.1).
package main

import (
	"os"

	"github.com/schiffy91/btrc/cmd/btrc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
