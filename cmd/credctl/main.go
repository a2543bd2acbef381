// Command credctl validates and issues credential uploads from the command
// line and queries a running credhub server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"credhub/pkg/platform/httputil"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// printError writes err followed by any per-row details it carries.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "error:", err)
	var detailer httputil.Detailer
	if errors.As(err, &detailer) {
		for _, d := range detailer.Details() {
			fmt.Fprintln(w, "  "+d)
		}
	}
}
