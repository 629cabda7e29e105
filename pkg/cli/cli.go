package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// Run executes the command tree against args, grounded on the teacher's
// cmd/tap/tap.go + pkg/cli/cli.go split: signal-aware context, streams
// wired to cobra's in/out/err.
func Run(ctx context.Context, rt *toolkit.Runtime, in io.Reader, out, errOut io.Writer, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd(&Deps{Runtime: rt})
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		fmt.Fprintln(errOut, err)
		return err
	}
	return nil
}
