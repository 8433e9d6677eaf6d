// Command lua2cpp is the CLI surface for the transpiler (spec.md §6),
// built on spf13/cobra the way _examples/zboralski-galago/cmd/galago
// wires a root command plus subcommands, since the teacher's own
// main.go is a single flag.Parse() call with no subcommand tree.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
