// Package main runs the PromptShelf HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/promptshelf/promptshelf-server/internal/di"
	"github.com/promptshelf/promptshelf-server/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := di.NewContainer()
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "promptshelf: %v\n", err)
		return 1
	}

	log := do.MustInvoke[*logger.Logger](injector)

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping server")

	// Shutdown runs in reverse dependency order: the HTTP server and the
	// session cleanup job stop before the database is closed.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Server stopped")
	return 0
}
