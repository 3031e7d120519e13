package main

import (
	"fmt"

	"github.com/emeka/petrocms/internal/config"
	"github.com/emeka/petrocms/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start the HTTP server that exposes the public site endpoints, the admin dashboard API and the cron-triggered job endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	appCfg, err := config.NewAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	srv, err := server.New(server.Config{
		Port: servePort,
		App:  appCfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
