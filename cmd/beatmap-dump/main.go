// Command beatmap-dump loads map bundles and prints what was resolved.
//
// Usage:
//
//	beatmap-dump info <dir|zip|key|url>
//	beatmap-dump resolve --probe <dir|zip|key|url>
//	beatmap-dump key https://maps.example.com/beatmap/570
//	beatmap-dump version
//
// Configuration is read from --config (YAML) and BEATMAP_* environment
// variables. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if isUsageError(err) {
			os.Exit(exitUsage)
		}
		os.Exit(exitError)
	}
	os.Exit(exitOK)
}
