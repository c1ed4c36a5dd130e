// Package main provides the entry point for the PRP extractor MCP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prp_server",
	Short: "YouTube to PRP extraction server",
	Long:  "prp_server parses YouTube videos into structured Product Requirements Prompts with task lists, persists them in Postgres, and mirrors them to Notion, exposed as MCP tools over stdio.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
