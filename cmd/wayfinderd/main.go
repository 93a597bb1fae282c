package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayfinder-ai/wayfinder/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wayfinderd",
		Short: "Wayfinder support daemon",
		Long:  "Wayfinder daemon for running the support chatbot API server and managing the default corpus",
	}

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.IndexCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
