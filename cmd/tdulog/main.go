package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/tdulog/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return exitCode(newRootCmd().ExecuteContext(ctx), os.Stderr)
}

// exitCode reports err on stderr and returns the process exit status.
// Transport failures were already shown as they happened.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrTransport):
		return 1
	default:
		fmt.Fprintf(stderr, "tdulog: %v\n", err)
		return 1
	}
}
