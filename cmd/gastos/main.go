package main

import (
	"context"
	"os"

	"gastos/internal/cli"
	"gastos/internal/commands"
	applog "gastos/internal/log"
)

var version = "dev"

func main() {
	logger := applog.New(applog.Config{
		Component: applog.ComponentCLI,
		Handler:   applog.NewHandler(os.Stderr, "text", applog.DefaultConfig().Level),
	})

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	rootCmd := commands.NewRootCommand(commands.DefaultOpener(os.Stderr))
	rootCmd.Version = version

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
