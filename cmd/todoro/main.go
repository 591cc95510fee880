// Package main is the entry point for the todoro CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/harunari/todoro/internal/app"
	"github.com/harunari/todoro/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// The container (and its storage probe) is built before cobra runs,
	// so the overrides are picked out of the raw arguments here. They are
	// also honored as environment variables.
	opts := app.Options{
		ConfigPath: override(os.Args[1:], "--config", "TODORO_CONFIG"),
		DataDir:    override(os.Args[1:], "--data-dir", "TODORO_DATA_DIR"),
	}

	container, err := app.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	rootCmd := cli.NewRootCommand(container, version)
	// Declare the pre-parsed flags so cobra accepts them and documents them.
	rootCmd.PersistentFlags().String("config", "", "Config file path (default $XDG_CONFIG_HOME/todoro/config.toml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default $XDG_DATA_HOME/todoro)")
	return rootCmd.ExecuteContext(ctx)
}

// override returns the value of flag in args, falling back to the
// environment variable.
func override(args []string, flag, envVar string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, flag+"=") {
			return strings.TrimPrefix(arg, flag+"=")
		}
	}
	return os.Getenv(envVar)
}
