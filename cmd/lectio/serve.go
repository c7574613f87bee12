// cmd/lectio/serve.go
//
// The serve command runs the local HTTP service so other tools can trigger
// study runs and read the store.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lectio/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP service",
	Long: `Serves study generation and the study store over HTTP.

Endpoints:
  GET  /healthz         service status
  POST /generate        run an engine and persist the study
  GET  /studies         list saved studies
  GET  /studies/{slug}  fetch one saved study`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	pipe, err := env.newPipeline()
	if err != nil {
		return err
	}

	settings := server.DefaultSettings()
	settings.Host = env.cfg.Settings.Server.Host
	settings.Port = env.cfg.Settings.Server.Port
	if serveHost != "" {
		settings.Host = serveHost
	}
	if servePort != 0 {
		settings.Port = servePort
	}

	srv := server.New(settings, pipe, env.store, server.WithLogger(env.logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Println(headerStyle.Render("lectio service listening on " + srv.Addr()))
	fmt.Println(dimStyle.Render("Press Ctrl+C to stop."))
	env.journal.Info("server listening on %s", srv.Addr())

	<-ctx.Done()
	stop()

	fmt.Println(dimStyle.Render("Shutting down..."))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	env.journal.Info("server stopped")
	return nil
}
