package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "wikirag/0.1"). The Wikimedia API etiquette asks clients to
	// identify themselves.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// WikiConfig holds settings for the Wikipedia query API.
type WikiConfig struct {
	HTTPConfig `yaml:",inline"`

	// Pages is the number of top search results to download (minimum 1).
	Pages int `json:"pages" yaml:"pages"`

	// Verbose enables raw-response logging on the diagnostic stream.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// ModelConfig holds settings for the stages that call a language model.
type ModelConfig struct {
	HTTPConfig `yaml:",inline"`

	// Name is the model identifier (e.g. "gpt-3.5-turbo"). Must be one of
	// the allowed models; unknown names fall back to the default.
	Name string `json:"name" yaml:"name"`

	// APIKey is the authentication key for the hosted API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// OllamaHost is the base URL of a locally served model
	// (e.g. "http://localhost:11434").
	OllamaHost string `json:"ollama_host,omitempty" yaml:"ollama_host,omitempty"`

	// KeywordMaxTokens caps the output of the keyword derivation call (default 32).
	KeywordMaxTokens int `json:"keyword_max_tokens" yaml:"keyword_max_tokens"`

	// AnswerMaxTokens caps the output of the answer generation call (default 1000).
	AnswerMaxTokens int `json:"answer_max_tokens" yaml:"answer_max_tokens"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Wiki  WikiConfig  `json:"wiki" yaml:"wiki"`
	Model ModelConfig `json:"model" yaml:"model"`
}
