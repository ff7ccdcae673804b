// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/wikirag/internal/llm"
	"github.com/pdiddy/wikirag/internal/wiki"
	"github.com/pdiddy/wikirag/pkg/types"
)

// mockProvider replays scripted completions in order and records every
// request it receives.
type mockProvider struct {
	completions []llm.Completion
	errs        []error
	requests    []llm.ChatRequest
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Chat(_ context.Context, req llm.ChatRequest) (llm.Completion, error) {
	call := len(m.requests)
	m.requests = append(m.requests, req)
	if call < len(m.errs) && m.errs[call] != nil {
		return llm.Completion{}, m.errs[call]
	}
	if call < len(m.completions) {
		return m.completions[call], nil
	}
	return llm.Completion{}, fmt.Errorf("unexpected call %d", call)
}

// wikiHandler serves canned search and extract responses from one endpoint,
// mirroring how the MediaWiki API multiplexes on query parameters.
type wikiHandler struct {
	searchJSON   string
	extractJSON  map[string]string // pageid -> response body
	searchCalls  int
	extractCalls []string
}

func (h *wikiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("list") == "search":
		h.searchCalls++
		fmt.Fprint(w, h.searchJSON)
	case q.Get("prop") == "extracts":
		id := q.Get("pageids")
		h.extractCalls = append(h.extractCalls, id)
		body, ok := h.extractJSON[id]
		if !ok {
			// Unknown id: the API still answers 200 with a "missing" page.
			fmt.Fprintf(w, `{"query": {"pages": {"%s": {"pageid": %s, "missing": ""}}}}`, id, id)
			return
		}
		fmt.Fprint(w, body)
	default:
		http.Error(w, "unexpected query", http.StatusBadRequest)
	}
}

func parisHandler() *wikiHandler {
	return &wikiHandler{
		searchJSON: `{"query": {"search": [{"title": "Paris", "pageid": 1}]}}`,
		extractJSON: map[string]string{
			"1": `{"query": {"pages": {"1": {"pageid": 1, "title": "Paris", "extract": "Paris is the capital of France."}}}}`,
		},
	}
}

func testDeps(t *testing.T, provider llm.Provider, handler http.Handler) (Deps, func()) {
	t.Helper()
	ts := httptest.NewServer(handler)

	old := wiki.SetAPIBase(ts.URL)
	cleanup := func() {
		wiki.SetAPIBase(old)
		ts.Close()
	}

	model, _ := llm.ParseModel("gpt-3.5-turbo")
	return Deps{
		Provider: provider,
		Model:    model,
		Wiki:     &wiki.Client{Client: ts.Client()},
	}, cleanup
}

func testConfig(pages int) types.PipelineConfig {
	cfg := types.PipelineConfig{}
	cfg.Wiki.Pages = pages
	cfg.Model.KeywordMaxTokens = 32
	cfg.Model.AnswerMaxTokens = 1000
	return cfg
}

func TestRunAnswersQuestion(t *testing.T) {
	provider := &mockProvider{completions: []llm.Completion{
		{Content: "Paris", Usage: &llm.Usage{PromptTokens: 20, CompletionTokens: 2}},
		{Content: "The capital of France is Paris."},
	}}
	deps, cleanup := testDeps(t, provider, parisHandler())
	defer cleanup()

	var out, errBuf bytes.Buffer
	err := Run(context.Background(), deps, testConfig(1), "What is the capital of France?", &out, &errBuf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.String() != "The capital of France is Paris.\n" {
		t.Errorf("stdout = %q", out.String())
	}

	if len(provider.requests) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(provider.requests))
	}

	// Keyword call: instruction plus the question, capped at 32 tokens.
	kw := provider.requests[0]
	if kw.MaxTokens != 32 {
		t.Errorf("keyword MaxTokens = %d, want 32", kw.MaxTokens)
	}
	if len(kw.Messages) != 2 || kw.Messages[1].Content != "What is the capital of France?" {
		t.Errorf("keyword messages = %+v", kw.Messages)
	}

	// Answer call: one Wikipedia context message, then the instruction.
	ans := provider.requests[1]
	if ans.MaxTokens != 1000 {
		t.Errorf("answer MaxTokens = %d, want 1000", ans.MaxTokens)
	}
	if len(ans.Messages) != 2 {
		t.Fatalf("answer messages = %d, want 2", len(ans.Messages))
	}
	if ans.Messages[0].Name != "Wikipedia" || ans.Messages[0].Content != "Paris is the capital of France." {
		t.Errorf("context message = %+v", ans.Messages[0])
	}
	if !strings.Contains(ans.Messages[1].Content, "What is the capital of France?") {
		t.Errorf("instruction = %q", ans.Messages[1].Content)
	}

	// Progress narration stays on the error stream.
	if !strings.Contains(errBuf.String(), "Keywords found: Paris") {
		t.Errorf("stderr = %q", errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "Tokens in: 20") {
		t.Errorf("stderr should report token usage, got %q", errBuf.String())
	}
}

func TestRunEmptySearch(t *testing.T) {
	provider := &mockProvider{completions: []llm.Completion{{Content: "zxqjw"}}}
	handler := &wikiHandler{searchJSON: `{"query": {"search": []}}`}
	deps, cleanup := testDeps(t, provider, handler)
	defer cleanup()

	var out, errBuf bytes.Buffer
	err := Run(context.Background(), deps, testConfig(1), "gibberish?", &out, &errBuf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.String() != "" {
		t.Errorf("stdout = %q, want empty", out.String())
	}
	if !strings.Contains(errBuf.String(), "No Wikipedia pages matched") {
		t.Errorf("stderr = %q", errBuf.String())
	}
	// The answer stage must not run when there is nothing to answer from.
	if len(provider.requests) != 1 {
		t.Errorf("provider calls = %d, want 1", len(provider.requests))
	}
}

func TestRunKeywordFailure(t *testing.T) {
	provider := &mockProvider{errs: []error{errors.New("model unavailable")}}
	deps, cleanup := testDeps(t, provider, parisHandler())
	defer cleanup()

	var out, errBuf bytes.Buffer
	err := Run(context.Background(), deps, testConfig(1), "anything?", &out, &errBuf)

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want *StageError", err)
	}
	if se.ExitCode() != 1 {
		t.Errorf("ExitCode = %d, want 1", se.ExitCode())
	}
	if !strings.Contains(se.Error(), "keyword derivation") {
		t.Errorf("error = %q", se.Error())
	}
}

func TestRunSearchFailure(t *testing.T) {
	provider := &mockProvider{completions: []llm.Completion{{Content: "Paris"}}}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	deps, cleanup := testDeps(t, provider, handler)
	defer cleanup()

	var out, errBuf bytes.Buffer
	err := Run(context.Background(), deps, testConfig(1), "anything?", &out, &errBuf)

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want *StageError", err)
	}
	if se.ExitCode() != 2 {
		t.Errorf("ExitCode = %d, want 2", se.ExitCode())
	}
}

func TestRunMissingPage(t *testing.T) {
	provider := &mockProvider{completions: []llm.Completion{{Content: "Paris"}}}
	handler := parisHandler()
	handler.extractJSON = nil // every extract comes back missing
	deps, cleanup := testDeps(t, provider, handler)
	defer cleanup()

	var out, errBuf bytes.Buffer
	err := Run(context.Background(), deps, testConfig(1), "What is the capital of France?", &out, &errBuf)

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want *StageError", err)
	}
	if se.ExitCode() != 3 {
		t.Errorf("ExitCode = %d, want 3", se.ExitCode())
	}

	var nfe *wiki.NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("error chain should carry *wiki.NotFoundError, got %v", err)
	}

	// Answer generation must not run after a failed download.
	if len(provider.requests) != 1 {
		t.Errorf("provider calls = %d, want 1", len(provider.requests))
	}
	if out.String() != "" {
		t.Errorf("stdout = %q, want empty", out.String())
	}
}

func TestRunAnswerFailure(t *testing.T) {
	provider := &mockProvider{
		completions: []llm.Completion{{Content: "Paris"}},
		errs:        []error{nil, errors.New("rate limited")},
	}
	deps, cleanup := testDeps(t, provider, parisHandler())
	defer cleanup()

	var out, errBuf bytes.Buffer
	err := Run(context.Background(), deps, testConfig(1), "What is the capital of France?", &out, &errBuf)

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want *StageError", err)
	}
	if se.ExitCode() != 4 {
		t.Errorf("ExitCode = %d, want 4", se.ExitCode())
	}
}

func TestRunEmptyAnswer(t *testing.T) {
	provider := &mockProvider{completions: []llm.Completion{
		{Content: "Paris"},
		{Content: ""},
	}}
	deps, cleanup := testDeps(t, provider, parisHandler())
	defer cleanup()

	var out, errBuf bytes.Buffer
	err := Run(context.Background(), deps, testConfig(1), "What is the capital of France?", &out, &errBuf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// An empty completion is a content gap, not a failure.
	if out.String() != "No response received\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRunEmptyKeywordWarns(t *testing.T) {
	provider := &mockProvider{completions: []llm.Completion{{Content: "  \n"}}}
	handler := &wikiHandler{searchJSON: `{"query": {"search": []}}`}
	deps, cleanup := testDeps(t, provider, handler)
	defer cleanup()

	var out, errBuf bytes.Buffer
	err := Run(context.Background(), deps, testConfig(1), "anything?", &out, &errBuf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(errBuf.String(), "warning: model returned no keyword") {
		t.Errorf("stderr = %q", errBuf.String())
	}
	// The empty keyword still goes through the search stage.
	if handler.searchCalls != 1 {
		t.Errorf("search calls = %d, want 1", handler.searchCalls)
	}
}

func TestStageErrorCodes(t *testing.T) {
	tests := []struct {
		stage Stage
		code  int
		name  string
	}{
		{StageKeyword, 1, "keyword derivation"},
		{StageSearch, 2, "Wikipedia search"},
		{StageFetch, 3, "page download"},
		{StageAnswer, 4, "answer generation"},
	}
	for _, tt := range tests {
		se := &StageError{Stage: tt.stage, Err: errors.New("boom")}
		if se.ExitCode() != tt.code {
			t.Errorf("%v ExitCode = %d, want %d", tt.stage, se.ExitCode(), tt.code)
		}
		if !strings.Contains(se.Error(), tt.name) {
			t.Errorf("Error() = %q, want substring %q", se.Error(), tt.name)
		}
		if !errors.Is(se, se.Err) && se.Unwrap() == nil {
			t.Errorf("Unwrap should expose the cause")
		}
	}
}
