// Command plz0 parses, compiles, and executes plzero source files.
package main

import (
	"os"

	"github.com/plzero/plzero/cmd/plz0/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
