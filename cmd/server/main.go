package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apexneural-anniesiri/Project-CUA/internal/di"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/env"
)

const shutdownTimeout = 30 * time.Second

func main() {
	envService := env.NewEnvService()

	container := di.NewContainer(di.ConfigFromEnv(envService))

	addr := ":" + envService.GetWithDefault("PORT", "8000")
	server := &http.Server{
		Addr:    addr,
		Handler: container.Handler,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		container.Logger.Info("shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			container.Logger.Error("http server shutdown", "error", err)
		}

		// Sessions hold live browsers; dispose them after in-flight
		// requests drain so no step loses its driver mid-run.
		container.Close()
		close(idleConnsClosed)
	}()

	container.Logger.Info("agent service listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		container.Logger.Error("http server failed", "error", err)
		container.Close()
		os.Exit(1)
	}
	<-idleConnsClosed
}
