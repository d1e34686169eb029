// Package main provides the entry point for the adaptive quiz engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quiz_agent",
	Short: "Adaptive confidence-driven interview engine",
	Long:  "Runs adaptive discovery interviews: an LLM-backed analyzer extracts facts from each answer, a confidence model tracks what is known per category, and a selection policy picks the next question until every category clears its threshold.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
