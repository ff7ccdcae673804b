// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm defines the chat-provider contract and the backends that
// serve it (hosted OpenAI API, locally served Ollama model).
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry of a chat exchange.
type Message struct {
	Role Role

	// Name optionally tags the source of a system message (e.g. "Wikipedia"
	// for page extracts fed as context). Backends without a name field drop it.
	Name string

	Content string
}

// Usage holds the token counts a provider reported for one call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Completion is a provider's reply to a chat request. Content may be empty
// when the call succeeded but the provider returned no text; callers decide
// how to proceed rather than failing.
type Completion struct {
	Content string

	// Usage is nil when the provider reported no token counts.
	Usage *Usage
}

// ChatRequest carries the message list and the output token cap for one call.
type ChatRequest struct {
	Messages []Message

	// MaxTokens caps the completion length. Zero means backend default.
	MaxTokens int
}

// Provider serves chat requests against a language-model backend.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (Completion, error)
}
