// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wikirag/internal/wiki"
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search Wikipedia for a keyword",
	Long: `Search runs only the Wikipedia lookup stage: it queries the public query
API for the keyword and prints the matched pages in relevance order.
Output is a table by default; --json and --yaml select machine formats.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	keyword := strings.Join(args, " ")

	client := &wiki.Client{
		Client:    &http.Client{Timeout: cfg.Wiki.Timeout},
		UserAgent: cfg.Wiki.UserAgent,
	}
	if cfg.Wiki.Verbose {
		client.RawLog = os.Stderr
	}

	results, err := client.Search(context.Background(), keyword)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	switch {
	case asJSON && asYAML:
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	case asJSON:
		return wiki.FormatJSON(results, os.Stdout)
	case asYAML:
		return wiki.FormatYAML(results, os.Stdout)
	default:
		wiki.FormatTable(results, os.Stdout)
		return nil
	}
}
