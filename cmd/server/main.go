// Command server runs the quality-management API server.
//
// Configuration comes from environment variables, or from a YAML file when
// CONFIG_PATH is set. The server shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/osanchezal/sgc-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
