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

// openAIChatURL is the OpenAI chat completions endpoint. Package-level var
// for test substitution.
var openAIChatURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider calls the hosted OpenAI chat completions API.
type OpenAIProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Name returns the backend identifier.
func (p *OpenAIProvider) Name() string { return "openai" }

// openAIRequest is the request body for the chat completions API.
type openAIRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens,omitempty"`
	Messages  []openAIMessage `json:"messages"`
}

// openAIMessage is a single message in the chat completions conversation.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// openAIResponse is the response body from the chat completions API.
type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
	Usage   *openAIUsage   `json:"usage"`
}

type openAIChoice struct {
	Message openAIChoiceMessage `json:"message"`
}

type openAIChoiceMessage struct {
	Content string `json:"content"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Chat sends the message list and returns the first choice's content. An
// empty choice list yields an empty Completion, not an error; transport
// failures, non-success statuses, and malformed payloads are errors.
func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (Completion, error) {
	reqBody := openAIRequest{
		Model:     p.Model,
		MaxTokens: req.MaxTokens,
	}
	for _, m := range req.Messages {
		reqBody.Messages = append(reqBody.Messages, openAIMessage{
			Role:    string(m.Role),
			Content: m.Content,
			Name:    m.Name,
		})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Completion{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Completion{}, fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Completion{}, fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return Completion{}, fmt.Errorf("decoding OpenAI response: %w", err)
	}

	comp := Completion{}
	if oResp.Usage != nil {
		comp.Usage = &Usage{
			PromptTokens:     oResp.Usage.PromptTokens,
			CompletionTokens: oResp.Usage.CompletionTokens,
		}
	}
	if len(oResp.Choices) > 0 {
		comp.Content = oResp.Choices[0].Message.Content
	}
	return comp, nil
}
