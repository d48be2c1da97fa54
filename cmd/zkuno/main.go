package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"zkuno/cmd/zkuno/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}
