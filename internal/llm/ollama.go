// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultOllamaHost is the standard address of a local Ollama server.
const DefaultOllamaHost = "http://localhost:11434"

// OllamaProvider calls a locally served model through the Ollama chat API.
type OllamaProvider struct {
	// Host is the server base URL; empty means DefaultOllamaHost.
	Host   string
	Model  string
	Client *http.Client
}

// Name returns the backend identifier.
func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) host() string {
	if p.Host == "" {
		return DefaultOllamaHost
	}
	return p.Host
}

// ollamaRequest is the request body for the Ollama chat API.
type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaOptions carries generation parameters. NumPredict is Ollama's
// output token cap.
type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

// ollamaResponse is the non-streaming response body from the chat API.
type ollamaResponse struct {
	Message         ollamaMessage `json:"message"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

// Chat sends the message list with stream=false and returns the reply
// content. The message Name tag has no Ollama equivalent and is dropped.
func (p *OllamaProvider) Chat(ctx context.Context, req ChatRequest) (Completion, error) {
	reqBody := ollamaRequest{
		Model:  p.Model,
		Stream: false,
	}
	if req.MaxTokens > 0 {
		reqBody.Options = &ollamaOptions{NumPredict: req.MaxTokens}
	}
	for _, m := range req.Messages {
		reqBody.Messages = append(reqBody.Messages, ollamaMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host()+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return Completion{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Completion{}, fmt.Errorf("calling Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Completion{}, fmt.Errorf("Ollama API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return Completion{}, fmt.Errorf("decoding Ollama response: %w", err)
	}

	comp := Completion{Content: oResp.Message.Content}
	if oResp.PromptEvalCount > 0 || oResp.EvalCount > 0 {
		comp.Usage = &Usage{
			PromptTokens:     oResp.PromptEvalCount,
			CompletionTokens: oResp.EvalCount,
		}
	}
	return comp, nil
}
