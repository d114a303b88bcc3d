// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gen

import (
	"strings"
	"testing"

	"github.com/scholarmind/scholarmind/pkg/types"
)

func TestReportRequest(t *testing.T) {
	sources := []types.SearchResult{
		{Title: "Wikipedia: Quantum computing", URL: "https://en.wikipedia.org/wiki/Quantum_computing"},
		{URL: "https://example.com/qc"},
	}

	req, err := ReportRequest("Quantum Computing", "merged corpus text", "Hindi", sources)
	if err != nil {
		t.Fatalf("ReportRequest: %v", err)
	}

	if req.MaxTokens != 8192 || req.Temperature != 0.7 {
		t.Errorf("sampling = %d/%g, want 8192/0.7", req.MaxTokens, req.Temperature)
	}
	for _, want := range []string{
		`research report on "Quantum Computing"`,
		"Write the ENTIRE report in Hindi",
		"merged corpus text",
		"- Wikipedia: Quantum computing: https://en.wikipedia.org/wiki/Quantum_computing",
		"- Source: https://example.com/qc",
		"15. References & Sources",
	} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestReportRequestNoSources(t *testing.T) {
	req, err := ReportRequest("Topic", "corpus", "English", nil)
	if err != nil {
		t.Fatalf("ReportRequest: %v", err)
	}
	if !strings.Contains(req.Prompt, "No source URLs available.") {
		t.Error("prompt missing the empty-sources marker")
	}
}

func TestSlidesRequest(t *testing.T) {
	req, err := SlidesRequest("the full report", "Tamil")
	if err != nil {
		t.Fatalf("SlidesRequest: %v", err)
	}
	if req.MaxTokens != 4096 || req.Temperature != 0.5 {
		t.Errorf("sampling = %d/%g, want 4096/0.5", req.MaxTokens, req.Temperature)
	}
	for _, want := range []string{"EXACTLY 14 slides", "the full report", "Write all content in Tamil"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSpeechRequestCapsReportContext(t *testing.T) {
	slides := []types.Slide{
		{Title: "Intro", Bullets: []string{"First point"}},
		{Title: "Detail", Bullets: []string{"Second point"}},
	}
	longReport := strings.Repeat("r", 5000)

	req, err := SpeechRequest("Topic", slides, longReport, 15, "English")
	if err != nil {
		t.Fatalf("SpeechRequest: %v", err)
	}

	if strings.Contains(req.Prompt, longReport) {
		t.Error("full report leaked into the prompt")
	}
	if !strings.Contains(req.Prompt, strings.Repeat("r", 3000)+"...") {
		t.Error("prompt missing the capped report summary")
	}
	if !strings.Contains(req.Prompt, "has 2 slides") {
		t.Error("prompt missing the slide count")
	}
	if !strings.Contains(req.Prompt, "15 minutes") {
		t.Error("prompt missing the duration")
	}
	// Slides travel as indented JSON.
	if !strings.Contains(req.Prompt, `"title": "Intro"`) {
		t.Error("prompt missing serialized slides")
	}
}

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{5, 5}, {10, 10}, {15, 15}, {20, 20},
		{0, 10}, {7, 10}, {90, 10}, {-5, 10},
	}
	for _, tt := range tests {
		if got := NormalizeDuration(tt.in); got != tt.want {
			t.Errorf("NormalizeDuration(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestChatRequestCapsContext(t *testing.T) {
	longContext := strings.Repeat("c", 6000)

	req, err := ChatRequest("What about ethics?", "AI", longContext, "English")
	if err != nil {
		t.Fatalf("ChatRequest: %v", err)
	}
	if req.MaxTokens != 4096 || req.Temperature != 0.7 {
		t.Errorf("sampling = %d/%g, want 4096/0.7", req.MaxTokens, req.Temperature)
	}
	if strings.Contains(req.Prompt, longContext) {
		t.Error("full context leaked into the prompt")
	}
	if !strings.Contains(req.Prompt, strings.Repeat("c", 4000)+"...") {
		t.Error("prompt missing the capped context")
	}
	if !strings.Contains(req.Prompt, "User Question: What about ethics?") {
		t.Error("prompt missing the user question")
	}
}

func TestChatRequestEmptyContext(t *testing.T) {
	req, err := ChatRequest("Hello", "general", "", "English")
	if err != nil {
		t.Fatalf("ChatRequest: %v", err)
	}
	if !strings.Contains(req.Prompt, "No research report has been generated yet.") {
		t.Error("prompt missing the no-report notice")
	}
}
