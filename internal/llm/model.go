// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"net/http"
	"strings"

	"github.com/pdiddy/wikirag/pkg/types"
)

// ProviderKind selects which backend serves a model.
type ProviderKind string

const (
	KindOpenAI ProviderKind = "openai"
	KindOllama ProviderKind = "ollama"
)

// Model is one entry of the fixed model allow-list.
type Model struct {
	Name string
	Kind ProviderKind

	// PromptCost and CompletionCost are dollars per million tokens.
	// Zero for locally served models.
	PromptCost     float64
	CompletionCost float64
}

// DefaultModel is used when no model is configured or the requested name
// is not on the allow-list.
var DefaultModel = Model{Name: "gpt-3.5-turbo", Kind: KindOpenAI, PromptCost: 0.5, CompletionCost: 1.5}

// allowedModels is the allow-list in display order.
var allowedModels = []Model{
	{Name: "gpt-4-turbo", Kind: KindOpenAI, PromptCost: 10.0, CompletionCost: 30.0},
	DefaultModel,
	{Name: "gpt-4o", Kind: KindOpenAI, PromptCost: 5.0, CompletionCost: 15.0},
	{Name: "llama3", Kind: KindOllama},
}

// Models returns a copy of the allow-list.
func Models() []Model {
	out := make([]Model, len(allowedModels))
	copy(out, allowedModels)
	return out
}

// ModelNames returns the allowed model names, for diagnostics.
func ModelNames() []string {
	names := make([]string, len(allowedModels))
	for i, m := range allowedModels {
		names[i] = m.Name
	}
	return names
}

// ParseModel looks up name on the allow-list. Unknown names return
// DefaultModel and ok=false so the caller can warn without failing.
func ParseModel(name string) (m Model, ok bool) {
	for _, candidate := range allowedModels {
		if candidate.Name == name {
			return candidate, true
		}
	}
	return DefaultModel, false
}

// Cost returns the dollar cost of usage under m's pricing, split into the
// prompt and completion shares. Nil usage costs nothing.
func (m Model) Cost(u *Usage) (prompt, completion float64) {
	if u == nil {
		return 0, 0
	}
	prompt = float64(u.PromptTokens) / 1_000_000 * m.PromptCost
	completion = float64(u.CompletionTokens) / 1_000_000 * m.CompletionCost
	return prompt, completion
}

// NewProvider constructs the backend that serves m, wired with the
// credentials and HTTP settings from cfg.
func NewProvider(m Model, cfg types.ModelConfig) Provider {
	client := &http.Client{Timeout: cfg.Timeout}
	if m.Kind == KindOllama {
		return &OllamaProvider{
			Host:   strings.TrimSuffix(cfg.OllamaHost, "/"),
			Model:  m.Name,
			Client: client,
		}
	}
	return &OpenAIProvider{
		APIKey: cfg.APIKey,
		Model:  m.Name,
		Client: client,
	}
}
