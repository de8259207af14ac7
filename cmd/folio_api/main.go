// Package main provides the entry point for the portfolio document
// generation service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "folio_api",
	Short: "Portfolio document generation service",
	Long:  "folio_api generates tailored resumes and cover letters from portfolio content via language models, rendered to PDF, exposed over a REST API or one-shot CLI runs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
