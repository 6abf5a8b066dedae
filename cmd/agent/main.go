// Package main is the entry point for the research agent CLI. The root
// command answers a single question and prints the result as JSON; the
// serve subcommand exposes the streaming HTTP API.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   `agent "<your question>"`,
	Short: "LLM research agent",
	Long: `agent decomposes a question into web search queries, gathers evidence
through an iterative search-and-reflect loop, and prints a short cited
answer as JSON.

Without OPENAI_API_KEY the pipeline runs against deterministic offline
stubs; without TAVILY_API_KEY or BRAVE_API_KEY retrieval falls back to a
deterministic mock provider. Both degradations are silent and the output
stays well-formed.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return errors.New(`usage: agent "<your question>"`)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		question := strings.Join(args, " ")
		result, err := app.AnswerQuestion(cmd.Context(), question)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
