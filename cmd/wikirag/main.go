// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wikirag CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wikirag/internal/config"
	"github.com/pdiddy/wikirag/internal/pipeline"
	"github.com/pdiddy/wikirag/internal/secrets"
	"github.com/pdiddy/wikirag/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, or the secret value for key otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the wikirag CLI.
var rootCmd = &cobra.Command{
	Use:   "wikirag",
	Short: "Answer questions with Wikipedia knowledge and a language model",
	Long: `wikirag answers a free-text question using knowledge from Wikipedia. A
language model first derives a search keyword from the question, the keyword
is looked up through the Wikipedia query API, the top page extracts are
downloaded, and the model then answers the question using those extracts as
context.

Each pipeline stage is also exposed as a subcommand: search runs only the
Wikipedia lookup and page downloads only one extract.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./wikirag.yaml or ~/.config/wikirag/config.yaml)")
}

func initConfig() {
	// A .env file in the working directory seeds the environment before
	// viper reads it.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wikirag")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wikirag"))
		}
	}

	viper.SetEnvPrefix("WIKIRAG")
	viper.AutomaticEnv()
	config.BindEnvAliases(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig builds the pipeline configuration and prints any warnings
// (unknown model name, invalid page count) to stderr.
func loadConfig() types.PipelineConfig {
	cfg, warnings := config.Load(viper.GetViper())
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	cfg.Model.APIKey = secretDefault(secrets.OpenAIAPIKey, cfg.Model.APIKey)
	if host := secretDefault(secrets.OllamaHost, ""); host != "" && !viper.IsSet("model.ollama_host") {
		cfg.Model.OllamaHost = host
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			os.Exit(stageErr.ExitCode())
		}
		os.Exit(1)
	}
}
