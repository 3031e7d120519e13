// Package main provides the entry point for the petrocms backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "petrocms",
	Short: "Marketing site backend and CMS",
	Long:  "petrocms serves the lead capture, blog and admin API for the marketing site, and runs the scheduled price, news and post generation jobs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
