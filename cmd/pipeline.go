package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Phase is the position of a run in the fetch → extract → summarize →
// generate sequence.
type Phase int

const (
	PhaseFetching Phase = iota
	PhaseExtracting
	PhaseSummarizing
	PhaseGenerating
	PhaseDone
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseExtracting:
		return "extracting"
	case PhaseSummarizing:
		return "summarizing"
	case PhaseGenerating:
		return "generating"
	case PhaseDone:
		return "done"
	case PhaseAborted:
		return "aborted"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// separator is printed between stages.
const separator = "---------"

// Result holds what a run produced. Fields after the failing stage are empty.
type Result struct {
	HTML    string
	Content string
	Summary string
	Post    string
	// Phase is PhaseDone on success, PhaseAborted otherwise.
	Phase Phase
	// FailedAt is the phase that was running when the run aborted.
	FailedAt Phase
}

// Pipeline runs the four stages in order against one backend.
type Pipeline struct {
	cfg          Config
	fetcher      Fetcher
	provider     LLMProvider
	out          io.Writer
	logger       *slog.Logger
	loadExamples func(path string) ([]Example, error)
}

// NewPipeline creates a Pipeline printing stage results to out. A nil
// logger discards log output.
func NewPipeline(cfg Config, fetcher Fetcher, provider LLMProvider, out io.Writer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		cfg:          cfg,
		fetcher:      fetcher,
		provider:     provider,
		out:          out,
		logger:       logger,
		loadExamples: LoadExamples,
	}
}

// Extract returns the backend's rendering of the page's core text, verbatim.
func (p *Pipeline) Extract(ctx context.Context, html string) (string, error) {
	return p.complete(ctx, StageExtract, ExtractPrompt(html))
}

// Summarize returns the backend's bullet summary of content, verbatim.
func (p *Pipeline) Summarize(ctx context.Context, content string) (string, error) {
	return p.complete(ctx, StageSummarize, SummarizePrompt(content, p.cfg.Language))
}

// Generate returns the backend's post for summary in the style of examples, verbatim.
func (p *Pipeline) Generate(ctx context.Context, summary string, examples []Example) (string, error) {
	return p.complete(ctx, StageGenerate, GeneratePrompt(summary, examples, p.cfg.Language))
}

func (p *Pipeline) complete(ctx context.Context, stage Stage, prompt Prompt) (string, error) {
	m := p.cfg.Models.For(stage)
	req := CompletionRequest{
		Model:       m.Name,
		System:      prompt.System,
		User:        prompt.User,
		Temperature: m.Temperature,
		MaxTokens:   m.MaxTokens,
	}
	start := time.Now()
	p.logger.Debug("completion request", "stage", stage, "backend", p.provider.Name(),
		"model", req.Model, "temperature", req.Temperature, "max_tokens", req.MaxTokens, "prompt_chars", len(req.User))
	reply, err := p.provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	p.logger.Debug("completion done", "stage", stage, "reply_chars", len(reply), "elapsed", time.Since(start))
	return reply, nil
}

// Run fetches url and takes it through every stage, printing each result.
// A fetch failure prints one line naming the URL and stops the run before
// any model is called. Any error aborts the run and is returned along with
// the partial Result.
func (p *Pipeline) Run(ctx context.Context, url string) (*Result, error) {
	res := &Result{Phase: PhaseFetching}
	abort := func(err error) (*Result, error) {
		res.FailedAt = res.Phase
		res.Phase = PhaseAborted
		p.logger.Debug("run aborted", "phase", res.FailedAt, "error", err)
		return res, err
	}

	fmt.Fprintln(p.out, "Fetching website HTML...")
	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{URL: url, Err: err}
		}
		fmt.Fprintf(p.out, "Error %v\n", err)
		return abort(err)
	}
	res.HTML = html
	p.logger.Debug("page fetched", "url", url, "bytes", len(html))

	prepared, err := PrepareHTML(p.cfg.HTMLMode, html, url)
	if err != nil {
		return abort(fmt.Errorf("preparing HTML: %w", err))
	}
	if len(prepared) != len(html) {
		p.logger.Debug("page prepared", "mode", p.cfg.HTMLMode, "bytes", len(prepared))
	}

	res.Phase = PhaseExtracting
	fmt.Fprintln(p.out, separator)
	fmt.Fprintln(p.out, "Extracting core content from the website...")
	content, err := p.Extract(ctx, prepared)
	if err != nil {
		return abort(fmt.Errorf("extracting core content: %w", err))
	}
	res.Content = content
	fmt.Fprintln(p.out, "Extracted core content:")
	fmt.Fprintln(p.out, content)

	res.Phase = PhaseSummarizing
	fmt.Fprintln(p.out, separator)
	fmt.Fprintln(p.out, "Summarizing the core content...")
	summary, err := p.Summarize(ctx, content)
	if err != nil {
		return abort(fmt.Errorf("summarizing content: %w", err))
	}
	res.Summary = summary
	fmt.Fprintln(p.out, "Generated summary:")
	fmt.Fprintln(p.out, summary)

	res.Phase = PhaseGenerating
	fmt.Fprintln(p.out, separator)
	fmt.Fprintln(p.out, "Generating X post based on the summary...")
	examples, err := p.loadExamples(p.cfg.ExamplesPath)
	if err != nil {
		return abort(err)
	}
	post, err := p.Generate(ctx, summary, examples)
	if err != nil {
		return abort(fmt.Errorf("generating post: %w", err))
	}
	res.Post = post
	fmt.Fprintln(p.out, "Generated X post:")
	fmt.Fprintln(p.out, post)

	res.Phase = PhaseDone
	return res, nil
}
