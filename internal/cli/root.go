// Package cli wires configuration, the diagram pipeline and the HTTP server
// into the aidiagram command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aidiagram",
	Short: "Generate Mermaid diagrams from natural-language descriptions",
	Long: `aidiagram fills a prompt template for the chosen diagram type, asks an LLM
endpoint (Ollama or OpenAI-compatible) for Mermaid source, extracts the code
block from the reply and renders it in the browser with Mermaid.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, generateCmd, benchCmd)
}
