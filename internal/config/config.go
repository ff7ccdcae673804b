// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the pipeline configuration from viper, applying
// defaults, the model allow-list, and page-count coercion.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/wikirag/internal/llm"
	"github.com/pdiddy/wikirag/pkg/types"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "wikirag/0.1 (https://github.com/pdiddy/wikirag)"
)

// BindEnvAliases wires the environment variable names consumed by the tool
// into viper keys. AI_MODEL, VERBOSE, and WIKI_PAGES are the documented
// user-facing variables; OPENAI_API_KEY and OLLAMA_HOST carry credentials
// and endpoints.
func BindEnvAliases(v *viper.Viper) {
	v.BindEnv("model.name", "AI_MODEL")
	v.BindEnv("model.api_key", "OPENAI_API_KEY")
	v.BindEnv("model.ollama_host", "OLLAMA_HOST")
	v.BindEnv("wiki.verbose", "VERBOSE")
	v.BindEnv("wiki.pages", "WIKI_PAGES")
}

// Default returns the configuration used when nothing is set.
func Default() types.PipelineConfig {
	return types.PipelineConfig{
		Wiki: types.WikiConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			Pages: 1,
		},
		Model: types.ModelConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			Name:             llm.DefaultModel.Name,
			OllamaHost:       llm.DefaultOllamaHost,
			KeywordMaxTokens: 32,
			AnswerMaxTokens:  1000,
		},
	}
}

// Load builds a PipelineConfig from v. Unknown model names and unparsable
// page counts never fail the load: they are coerced to safe defaults and
// reported as warnings for the caller to print.
func Load(v *viper.Viper) (types.PipelineConfig, []string) {
	cfg := Default()
	var warnings []string

	if name := v.GetString("model.name"); name != "" {
		if m, ok := llm.ParseModel(name); ok {
			cfg.Model.Name = m.Name
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"unknown model %q requested, falling back to %q; allowed models: %s",
				name, llm.DefaultModel.Name, strings.Join(llm.ModelNames(), ", ")))
		}
	}

	if key := v.GetString("model.api_key"); key != "" {
		cfg.Model.APIKey = key
	}
	if host := v.GetString("model.ollama_host"); host != "" {
		cfg.Model.OllamaHost = host
	}
	if n := v.GetInt("model.keyword_max_tokens"); n > 0 {
		cfg.Model.KeywordMaxTokens = n
	}
	if n := v.GetInt("model.answer_max_tokens"); n > 0 {
		cfg.Model.AnswerMaxTokens = n
	}
	if d := v.GetDuration("model.timeout"); d > 0 {
		cfg.Model.Timeout = d
	}

	// Any non-empty value enables verbose raw-response logging.
	if v.GetString("wiki.verbose") != "" {
		cfg.Wiki.Verbose = true
	}

	if raw := strings.TrimSpace(v.GetString("wiki.pages")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			warnings = append(warnings, fmt.Sprintf("invalid page count %q, using 1", raw))
			n = 1
		}
		cfg.Wiki.Pages = n
	}

	if d := v.GetDuration("wiki.timeout"); d > 0 {
		cfg.Wiki.Timeout = d
	}
	if ua := v.GetString("wiki.user_agent"); ua != "" {
		cfg.Wiki.UserAgent = ua
	}

	return cfg, warnings
}
