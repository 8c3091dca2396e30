// Command infracheck validates railway infrastructure documents, persists
// the errors it finds, and manages exported validation reports.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

// run executes the CLI and returns the process exit code: 0 on success, 1 on
// failure, 2 when --fail-on-errors is set and the pass found errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return exitCode(err, stderr)
	}
	return 0
}
