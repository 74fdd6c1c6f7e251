package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskflow/internal/cmd"
	"github.com/felixgeelhaar/taskflow/internal/exitcode"
	"github.com/felixgeelhaar/taskflow/internal/ux"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "\nOperation cancelled")
		exitcode.Exit(exitcode.GeneralError)
	}

	ux.RenderError(os.Stderr, err, ux.NewStyles(false))
	exitcode.ExitWithError(err)
}
