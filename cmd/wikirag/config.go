// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wikirag/internal/config"
)

const configFileName = "wikirag.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the wikirag configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter wikirag.yaml with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configFileName); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", configFileName)
		}

		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("marshaling default config: %w", err)
		}
		if err := os.WriteFile(configFileName, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", configFileName, err)
		}

		fmt.Fprintln(os.Stderr, "Wrote", configFileName)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
