// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the question-answering sequence: keyword
// derivation, Wikipedia search, page download, and answer generation.
// Each stage's failure aborts the run; the wrapping StageError carries
// the process exit code for that stage.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/wikirag/internal/llm"
	"github.com/pdiddy/wikirag/internal/wiki"
	"github.com/pdiddy/wikirag/pkg/types"
)

// Stage identifies one step of the pipeline.
type Stage int

const (
	StageKeyword Stage = iota + 1
	StageSearch
	StageFetch
	StageAnswer
)

// String returns the stage name for diagnostics.
func (s Stage) String() string {
	switch s {
	case StageKeyword:
		return "keyword derivation"
	case StageSearch:
		return "Wikipedia search"
	case StageFetch:
		return "page download"
	case StageAnswer:
		return "answer generation"
	default:
		return fmt.Sprintf("stage %d", int(s))
	}
}

// StageError wraps a stage failure. ExitCode maps stages to process exit
// codes: 1 keyword derivation, 2 search, 3 page download, 4 answer.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for the failed stage.
func (e *StageError) ExitCode() int { return int(e.Stage) }

// Deps holds the external collaborators of one run.
type Deps struct {
	Provider llm.Provider
	Model    llm.Model
	Wiki     *wiki.Client
}

// Run executes the full pipeline for one question. Progress goes to errw;
// the final answer is the only output written to outw. A search with no
// matches is not an error: Run reports it on errw and returns nil without
// producing an answer.
func Run(ctx context.Context, deps Deps, cfg types.PipelineConfig, question string, outw, errw io.Writer) error {
	question = strings.TrimSpace(question)

	fmt.Fprintf(errw, "\nPerforming keyword derivation using LLM model %s...\n", deps.Model.Name)
	keyword, err := DeriveKeyword(ctx, deps, cfg.Model.KeywordMaxTokens, question, errw)
	if err != nil {
		return &StageError{Stage: StageKeyword, Err: err}
	}
	if keyword == "" {
		fmt.Fprintln(errw, "warning: model returned no keyword, the search will likely match nothing")
	}
	fmt.Fprintf(errw, "Keywords found: %s\n", keyword)

	fmt.Fprintf(errw, "\nPerforming lookup in Wikipedia using %q...\n", keyword)
	pages, err := deps.Wiki.Search(ctx, keyword)
	if err != nil {
		return &StageError{Stage: StageSearch, Err: err}
	}
	if len(pages) == 0 {
		fmt.Fprintln(errw, "No Wikipedia pages matched the keyword; nothing to answer from.")
		return nil
	}
	fmt.Fprintln(errw, "Wikipedia search results:")
	wiki.FormatTable(pages, errw)

	extracts, err := FetchExtracts(ctx, deps.Wiki, pages, cfg.Wiki.Pages, errw)
	if err != nil {
		return &StageError{Stage: StageFetch, Err: err}
	}

	fmt.Fprintln(errw, "\nAnswering question using Wikipedia pages and LLM model...")
	answer, err := Answer(ctx, deps, cfg.Model.AnswerMaxTokens, extracts, question, errw)
	if err != nil {
		return &StageError{Stage: StageAnswer, Err: err}
	}
	if answer == "" {
		// Content-level gap, not an API error: display text only.
		answer = "No response received"
	}

	fmt.Fprintln(errw, "\nAnswer:")
	fmt.Fprintln(outw, answer)
	return nil
}

// printUsage reports token counts and the cost estimate for one model call.
func printUsage(m llm.Model, u *llm.Usage, w io.Writer) {
	if u == nil {
		return
	}
	in, out := m.Cost(u)
	fmt.Fprintf(w, "Tokens in: %d ($%.6f), tokens out: %d ($%.6f)\n",
		u.PromptTokens, in, u.CompletionTokens, out)
}
