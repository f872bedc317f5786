// Command flowrun is FlowScript's command-line front end: parse, format
// and run scripts from a terminal, built on pkg/runtime.
package main

import (
	"os"

	"github.com/flowscript/flowscript/cmd/flowrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
