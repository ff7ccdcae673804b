// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wikirag/internal/wiki"
)

var pageCmd = &cobra.Command{
	Use:   "page <pageid>",
	Short: "Download the plain-text extract of one Wikipedia page",
	Long: `Page runs only the download stage: it fetches the plain-text extract for
the given numeric page identifier and prints it to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	client := &wiki.Client{
		Client:    &http.Client{Timeout: cfg.Wiki.Timeout},
		UserAgent: cfg.Wiki.UserAgent,
	}
	if cfg.Wiki.Verbose {
		client.RawLog = os.Stderr
	}

	extract, err := client.Extract(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Println(extract)
	return nil
}
