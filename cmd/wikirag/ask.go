// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wikirag/internal/llm"
	"github.com/pdiddy/wikirag/internal/pipeline"
	"github.com/pdiddy/wikirag/internal/wiki"
	"github.com/pdiddy/wikirag/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a question using Wikipedia and a language model",
	Long: `Ask runs the full pipeline: a language model derives a search keyword from
the question, Wikipedia is searched for that keyword, the top page extracts
are downloaded, and the model answers the question from those extracts.

The question is taken from the arguments, or read as a single line from
standard input when no arguments are given. Progress goes to stderr; the
final answer is the only stdout output.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int("pages", 0, "number of top search results to download (overrides config)")
	askCmd.Flags().String("model", "", "model name (overrides config)")

	rootCmd.AddCommand(askCmd)
}

// greet introduces the tool on the diagnostic stream.
func greet(w *os.File) {
	fmt.Fprintln(w, `This is wikirag!

I will answer your question using knowledge from Wikipedia. I will first
use a LLM to derive a key word, perform a search in Wikipedia with it,
and retrieve the relevant pages. I will then feed these pages to the LLM
and let it answer your question in this way.`)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyAskFlags(cmd, &cfg)

	greet(os.Stderr)

	question, err := readQuestion(cmd, args)
	if err != nil {
		return err
	}
	if question == "" {
		return fmt.Errorf("no question given")
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}

	return pipeline.Run(context.Background(), deps, cfg, question, os.Stdout, os.Stderr)
}

// applyAskFlags lets command-line flags override the loaded configuration.
func applyAskFlags(cmd *cobra.Command, cfg *types.PipelineConfig) {
	if n, _ := cmd.Flags().GetInt("pages"); n > 0 {
		cfg.Wiki.Pages = n
	}
	if name, _ := cmd.Flags().GetString("model"); name != "" {
		if m, ok := llm.ParseModel(name); ok {
			cfg.Model.Name = m.Name
		} else {
			fmt.Fprintf(os.Stderr, "warning: unknown model %q requested, falling back to %q\n",
				name, cfg.Model.Name)
		}
	}
}

// readQuestion joins the arguments, or reads one line from stdin when none
// are given. The trailing newline is trimmed.
func readQuestion(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	fmt.Fprintln(os.Stderr, "Please enter your question:")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading question: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// buildDeps constructs the provider and Wikipedia client for one run.
func buildDeps(cfg types.PipelineConfig) (pipeline.Deps, error) {
	model, _ := llm.ParseModel(cfg.Model.Name)

	if model.Kind == llm.KindOpenAI && cfg.Model.APIKey == "" {
		return pipeline.Deps{}, fmt.Errorf("no OpenAI API key configured: set OPENAI_API_KEY or .secrets/openai-api-key")
	}

	wikiClient := &wiki.Client{
		Client:    &http.Client{Timeout: cfg.Wiki.Timeout},
		UserAgent: cfg.Wiki.UserAgent,
	}
	if cfg.Wiki.Verbose {
		wikiClient.RawLog = os.Stderr
	}

	return pipeline.Deps{
		Provider: llm.NewProvider(model, cfg.Model),
		Model:    model,
		Wiki:     wikiClient,
	}, nil
}
