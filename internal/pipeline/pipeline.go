// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the research cycle end to end: search aggregation,
// corpus assembly, report and slide generation, then session and archive
// handoff. See docs/ARCHITECTURE.md for the stage wiring.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/scholarmind/scholarmind/internal/gen"
	"github.com/scholarmind/scholarmind/internal/session"
	"github.com/scholarmind/scholarmind/pkg/types"
)

// minCorpusLen is the smallest corpus worth sending to the report prompt.
const minCorpusLen = 100

var (
	// ErrNoResults indicates every search backend came back empty.
	ErrNoResults = errors.New("no search results found")

	// ErrInsufficientContent indicates the merged corpus was too thin to
	// support a report. The caller should suggest a different topic.
	ErrInsufficientContent = errors.New("insufficient content extracted from web sources")
)

// Archive receives completed cycles for persistence.
type Archive interface {
	Append(ctx context.Context, rec types.GenerationRecord) error
}

// Pipeline wires the research stages together. Search and Merge are supplied
// as closures over their configured components so tests can substitute them.
type Pipeline struct {
	Search   func(ctx context.Context, topic string, w io.Writer) []types.SearchResult
	Merge    func(ctx context.Context, results []types.SearchResult, w io.Writer) string
	Generate func(ctx context.Context, req gen.Request) (string, error)
	Session  *session.Store
	Archive  Archive
}

// Run executes one full research cycle for the topic and returns the
// completed record. On success the record replaces the current session and
// is appended to the archive; archive failures only warn, they never undo a
// completed cycle.
func (p *Pipeline) Run(ctx context.Context, topic, language string, w io.Writer) (types.GenerationRecord, error) {
	language = gen.NormalizeLanguage(language)

	results := p.Search(ctx, topic, w)
	if len(results) == 0 {
		return types.GenerationRecord{}, ErrNoResults
	}
	fmt.Fprintf(w, "aggregated %d search results\n", len(results))

	corpus := p.Merge(ctx, results, w)
	if len(corpus) < minCorpusLen {
		return types.GenerationRecord{}, ErrInsufficientContent
	}
	fmt.Fprintf(w, "corpus ready: %d chars\n", len(corpus))

	reportReq, err := gen.ReportRequest(topic, corpus, language, results)
	if err != nil {
		return types.GenerationRecord{}, err
	}
	report, err := p.Generate(ctx, reportReq)
	if err != nil {
		return types.GenerationRecord{}, fmt.Errorf("generating report: %w", err)
	}
	fmt.Fprintf(w, "generated report: %d chars in %s\n", len(report), language)

	slides := p.generateSlides(ctx, topic, report, language, w)
	fmt.Fprintf(w, "generated %d slides\n", len(slides))

	rec := types.GenerationRecord{
		Topic:    topic,
		Language: language,
		Report:   report,
		Slides:   slides,
		Sources:  results,
		Created:  time.Now(),
	}

	if p.Session != nil {
		p.Session.Set(rec)
	}
	if p.Archive != nil {
		if err := p.Archive.Append(ctx, rec); err != nil {
			fmt.Fprintf(w, "warning: history write failed: %v\n", err)
		}
	}

	return rec, nil
}

// generateSlides always produces a deck: a failed generation call falls back
// the same way a malformed response does.
func (p *Pipeline) generateSlides(ctx context.Context, topic, report, language string, w io.Writer) []types.Slide {
	req, err := gen.SlidesRequest(report, language)
	if err != nil {
		fmt.Fprintf(w, "warning: slide prompt failed, using fallback deck: %v\n", err)
		return gen.FallbackDeck(topic)
	}

	raw, err := p.Generate(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "warning: slide generation failed, using fallback deck: %v\n", err)
		return gen.FallbackDeck(topic)
	}
	return gen.ParseSlides(topic, raw)
}

// Speech generates a timed speaking script for a completed cycle.
func (p *Pipeline) Speech(ctx context.Context, rec types.GenerationRecord, duration int) (string, error) {
	req, err := gen.SpeechRequest(rec.Topic, rec.Slides, rec.Report, duration, rec.Language)
	if err != nil {
		return "", err
	}
	speech, err := p.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generating speech: %w", err)
	}
	return speech, nil
}

// Chat answers a follow-up question grounded in a completed cycle's report.
func (p *Pipeline) Chat(ctx context.Context, rec types.GenerationRecord, message string) (string, error) {
	req, err := gen.ChatRequest(message, rec.Topic, rec.Report, rec.Language)
	if err != nil {
		return "", err
	}
	reply, err := p.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generating chat reply: %w", err)
	}
	return reply, nil
}
