// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wikirag/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the allowed models and their providers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-16s  %-8s  %-14s  %s\n", "Model", "Provider", "In ($/1M tok)", "Out ($/1M tok)")
		fmt.Println(strings.Repeat("-", 58))
		for _, m := range llm.Models() {
			name := m.Name
			if m.Name == llm.DefaultModel.Name {
				name += " (default)"
			}
			fmt.Printf("%-16s  %-8s  %-14.2f  %.2f\n", name, m.Kind, m.PromptCost, m.CompletionCost)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
