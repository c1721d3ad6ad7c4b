package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sharpframe/portfolio-manifest/cmd"
	"github.com/sharpframe/portfolio-manifest/internal/conf"
	"github.com/sharpframe/portfolio-manifest/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ configuration error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if settings.Debug || settings.Verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, settings.LogFile)
	defer logging.Close()

	// Ctrl+C cancels the context; one-shot runs finish fast, the watch
	// variant uses it for clean shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
