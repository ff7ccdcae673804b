// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/wikirag/internal/llm"
	"github.com/pdiddy/wikirag/pkg/types"
)

// keywordInstruction constrains the model to emit a single search keyword.
const keywordInstruction = "Extract exactly one keyword from the user's question for a Wikipedia lookup, respond with just the single keyword."

// answerPromptTmpl is the instruction appended after the Wikipedia context
// messages for the answer generation call.
var answerPromptTmpl = template.Must(template.New("answer").Parse(
	`Now answer the following question, using the information in the provided text: {{.Question}}`))

const (
	defaultKeywordMaxTokens = 32
	defaultAnswerMaxTokens  = 1000
)

// DeriveKeyword asks the model for a Wikipedia search keyword. The trimmed
// reply is returned as-is: it may be empty, multi-word, or malformed, and
// the caller decides how to proceed with a degenerate keyword.
func DeriveKeyword(ctx context.Context, deps Deps, maxTokens int, question string, w io.Writer) (string, error) {
	if maxTokens <= 0 {
		maxTokens = defaultKeywordMaxTokens
	}

	comp, err := deps.Provider.Chat(ctx, llm.ChatRequest{
		MaxTokens: maxTokens,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: keywordInstruction},
			{Role: llm.RoleUser, Content: question},
		},
	})
	if err != nil {
		return "", err
	}

	printUsage(deps.Model, comp.Usage, w)
	return strings.TrimSpace(comp.Content), nil
}

// Answer feeds the page extracts and the original question to the model and
// returns the trimmed reply. Each extract is a system message tagged
// "Wikipedia" so the context is distinct from the user's own message.
func Answer(ctx context.Context, deps Deps, maxTokens int, extracts []types.PageExtract, question string, w io.Writer) (string, error) {
	if maxTokens <= 0 {
		maxTokens = defaultAnswerMaxTokens
	}

	instruction, err := renderAnswerPrompt(question)
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(extracts)+1)
	for _, ex := range extracts {
		messages = append(messages, llm.Message{
			Role:    llm.RoleSystem,
			Name:    "Wikipedia",
			Content: ex.Text,
		})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: instruction})

	comp, err := deps.Provider.Chat(ctx, llm.ChatRequest{
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", err
	}

	printUsage(deps.Model, comp.Usage, w)
	return strings.TrimSpace(comp.Content), nil
}

// renderAnswerPrompt executes the answer prompt template with the question.
func renderAnswerPrompt(question string) (string, error) {
	var buf bytes.Buffer
	if err := answerPromptTmpl.Execute(&buf, struct{ Question string }{Question: question}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
