// Command noteweave is the batch CLI entrypoint (spec.md §6.2), grounded on
// the teacher's cmd/tap/tap.go: construct a toolkit.Runtime against the
// real OS and hand it straight to the command tree.
package main

import (
	"context"
	"os"

	"github.com/jlrickert/cli-toolkit/toolkit"

	"github.com/jlrickert/noteweave/pkg/cli"
)

func main() {
	ctx := context.Background()

	rt, err := toolkit.NewRuntime()
	if err != nil {
		os.Exit(1)
	}

	if err := cli.Run(ctx, rt, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
