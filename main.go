// countdown - an interactive countdown session controller.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"countdown/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "countdown: %v\n", err)
		os.Exit(1)
	}
}
