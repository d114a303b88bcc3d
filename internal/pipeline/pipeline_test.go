// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/scholarmind/scholarmind/internal/gen"
	"github.com/scholarmind/scholarmind/internal/session"
	"github.com/scholarmind/scholarmind/pkg/types"
)

type archiveSpy struct {
	recs []types.GenerationRecord
	err  error
}

func (a *archiveSpy) Append(_ context.Context, rec types.GenerationRecord) error {
	if a.err != nil {
		return a.err
	}
	a.recs = append(a.recs, rec)
	return nil
}

func stubSearch(results []types.SearchResult) func(context.Context, string, io.Writer) []types.SearchResult {
	return func(_ context.Context, _ string, _ io.Writer) []types.SearchResult {
		return results
	}
}

func stubMerge(corpus string) func(context.Context, []types.SearchResult, io.Writer) string {
	return func(_ context.Context, _ []types.SearchResult, _ io.Writer) string {
		return corpus
	}
}

// scriptedGen returns canned responses in call order and records prompts.
type scriptedGen struct {
	responses []string
	errs      []error
	prompts   []string
}

func (g *scriptedGen) generate(_ context.Context, req gen.Request) (string, error) {
	i := len(g.prompts)
	g.prompts = append(g.prompts, req.Prompt)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("unexpected generate call")
}

func testResults() []types.SearchResult {
	return []types.SearchResult{
		{URL: "https://en.wikipedia.org/wiki/Graphene", Title: "Wikipedia: Graphene", Source: "wikipedia"},
		{URL: "https://example.com/graphene", Title: "Graphene Overview", Source: "duckduckgo"},
	}
}

func longCorpus() string {
	return strings.Repeat("Graphene is a single layer of carbon atoms. ", 20)
}

func TestRunNoResults(t *testing.T) {
	p := &Pipeline{
		Search: stubSearch(nil),
		Merge:  stubMerge(longCorpus()),
	}

	_, err := p.Run(context.Background(), "graphene", "English", &bytes.Buffer{})
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("Run error = %v, want ErrNoResults", err)
	}
}

func TestRunInsufficientCorpus(t *testing.T) {
	g := &scriptedGen{}
	p := &Pipeline{
		Search:   stubSearch(testResults()),
		Merge:    stubMerge("Limited information available from web sources."),
		Generate: g.generate,
	}

	_, err := p.Run(context.Background(), "graphene", "English", &bytes.Buffer{})
	if !errors.Is(err, ErrInsufficientContent) {
		t.Errorf("Run error = %v, want ErrInsufficientContent", err)
	}
	if len(g.prompts) != 0 {
		t.Error("generation was called despite a thin corpus")
	}
}

func TestRunCompletesCycle(t *testing.T) {
	g := &scriptedGen{responses: []string{
		"## 1. Executive Summary\nGraphene report body.",
		`[{"title":"anything","bullets":["a"]},{"title":"More","bullets":["b"]}]`,
	}}
	store := &session.Store{}
	archive := &archiveSpy{}

	p := &Pipeline{
		Search:   stubSearch(testResults()),
		Merge:    stubMerge(longCorpus()),
		Generate: g.generate,
		Session:  store,
		Archive:  archive,
	}

	rec, err := p.Run(context.Background(), "graphene", "English", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rec.Report != "## 1. Executive Summary\nGraphene report body." {
		t.Errorf("Report = %q", rec.Report)
	}
	if rec.Slides[0].Title != "graphene" {
		t.Errorf("first slide title = %q, want the topic", rec.Slides[0].Title)
	}
	if len(rec.Sources) != 2 {
		t.Errorf("Sources = %d, want the aggregated results", len(rec.Sources))
	}
	if rec.Created.IsZero() {
		t.Error("record has no timestamp")
	}

	// Report prompt first, slides prompt second.
	if len(g.prompts) != 2 {
		t.Fatalf("made %d generate calls, want 2", len(g.prompts))
	}
	if !strings.Contains(g.prompts[0], "research report on \"graphene\"") {
		t.Error("first prompt is not the report prompt")
	}
	if !strings.Contains(g.prompts[1], "EXACTLY 14 slides") {
		t.Error("second prompt is not the slides prompt")
	}

	snap, ok := store.Snapshot()
	if !ok || snap.Topic != "graphene" {
		t.Errorf("session = %+v, ok=%v", snap, ok)
	}
	if len(archive.recs) != 1 {
		t.Errorf("archived %d runs, want 1", len(archive.recs))
	}
}

func TestRunNormalizesLanguage(t *testing.T) {
	g := &scriptedGen{responses: []string{"report", `[{"title":"t","bullets":["b"]}]`}}
	p := &Pipeline{
		Search:   stubSearch(testResults()),
		Merge:    stubMerge(longCorpus()),
		Generate: g.generate,
	}

	rec, err := p.Run(context.Background(), "graphene", "klingon", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.Language != "English" {
		t.Errorf("Language = %q, want English for an unsupported request", rec.Language)
	}
}

func TestRunReportFailurePropagates(t *testing.T) {
	g := &scriptedGen{errs: []error{errors.New("all models failed")}}
	store := &session.Store{}
	p := &Pipeline{
		Search:   stubSearch(testResults()),
		Merge:    stubMerge(longCorpus()),
		Generate: g.generate,
		Session:  store,
	}

	_, err := p.Run(context.Background(), "graphene", "English", &bytes.Buffer{})
	if err == nil {
		t.Fatal("Run succeeded, want report generation error")
	}
	if _, ok := store.Snapshot(); ok {
		t.Error("failed cycle must not replace the session")
	}
}

func TestRunSlideFailureUsesFallbackDeck(t *testing.T) {
	g := &scriptedGen{
		responses: []string{"the report", ""},
		errs:      []error{nil, errors.New("quota exhausted")},
	}
	p := &Pipeline{
		Search:   stubSearch(testResults()),
		Merge:    stubMerge(longCorpus()),
		Generate: g.generate,
	}

	var out bytes.Buffer
	rec, err := p.Run(context.Background(), "graphene", "English", &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.Slides) != 14 {
		t.Errorf("got %d slides, want the 14-slide fallback deck", len(rec.Slides))
	}
	if rec.Slides[0].Title != "graphene" {
		t.Errorf("first slide title = %q", rec.Slides[0].Title)
	}
	if !strings.Contains(out.String(), "fallback deck") {
		t.Error("missing fallback warning in progress output")
	}
}

func TestRunArchiveFailureWarnsOnly(t *testing.T) {
	g := &scriptedGen{responses: []string{"report", `[{"title":"t","bullets":["b"]}]`}}
	p := &Pipeline{
		Search:   stubSearch(testResults()),
		Merge:    stubMerge(longCorpus()),
		Generate: g.generate,
		Archive:  &archiveSpy{err: errors.New("disk full")},
	}

	var out bytes.Buffer
	if _, err := p.Run(context.Background(), "graphene", "English", &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "history write failed") {
		t.Error("missing archive warning in progress output")
	}
}

func TestSpeechUsesRecord(t *testing.T) {
	g := &scriptedGen{responses: []string{"[SLIDE 1: graphene] speech text"}}
	p := &Pipeline{Generate: g.generate}

	rec := types.GenerationRecord{
		Topic:    "graphene",
		Language: "Hindi",
		Report:   "the report",
		Slides:   []types.Slide{{Title: "graphene", Bullets: []string{"x"}}},
	}

	got, err := p.Speech(context.Background(), rec, 15)
	if err != nil {
		t.Fatalf("Speech: %v", err)
	}
	if got != "[SLIDE 1: graphene] speech text" {
		t.Errorf("Speech = %q", got)
	}
	for _, want := range []string{"15 minutes", "Write the ENTIRE speech in Hindi", "has 1 slides"} {
		if !strings.Contains(g.prompts[0], want) {
			t.Errorf("speech prompt missing %q", want)
		}
	}
}

func TestChatUsesRecord(t *testing.T) {
	g := &scriptedGen{responses: []string{"an answer"}}
	p := &Pipeline{Generate: g.generate}

	rec := types.GenerationRecord{Topic: "graphene", Language: "English", Report: "the report"}
	got, err := p.Chat(context.Background(), rec, "Is it conductive?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "an answer" {
		t.Errorf("Chat = %q", got)
	}
	if !strings.Contains(g.prompts[0], "User Question: Is it conductive?") {
		t.Error("chat prompt missing the question")
	}
	if !strings.Contains(g.prompts[0], `report on "graphene"`) {
		t.Error("chat prompt missing the topic")
	}
}
