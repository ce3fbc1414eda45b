// Command animedb is the operator CLI of the anime catalog database.
//
// Every sub-command loads configuration from ANIMEDB_* variables, opens the
// database pool, runs one store operation and prints the result as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/deppfellow/animedb/internal/errs"
	"github.com/deppfellow/animedb/internal/lib/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// reportError prints store failures as JSON and anything else as text.
func reportError(w io.Writer, err error) {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		if perr := utils.PrintJSON(w, map[string]*errs.Error{"error": appErr}); perr == nil {
			return
		}
	}
	fmt.Fprintln(w, "error:", err)
}
