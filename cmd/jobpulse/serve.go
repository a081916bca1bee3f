package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset to the dashboard",
	Long:  "Read-only HTTP server exposing the snapshot as CSV and JSON plus its aggregates, and the dashboard's static files.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		DatasetPath: cfg.Dataset.Path,
		StaticDir:   cfg.Server.StaticDir,
	}, logger)
	return srv.Run(ctx, addr)
}
