// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/scholarmind/scholarmind/pkg/types"
)

// Sampling parameters per request kind.
const (
	reportMaxTokens   = 8192
	reportTemperature = 0.7
	slidesMaxTokens   = 4096
	slidesTemperature = 0.5
	speechMaxTokens   = 8192
	speechTemperature = 0.7
	chatMaxTokens     = 4096
	chatTemperature   = 0.7
)

// Context caps keep follow-up prompts within the model's input window.
const (
	speechReportContextCap = 3000
	chatReportContextCap   = 4000
)

// defaultSpeechMinutes is used when the requested duration is not one of the
// supported presets.
const defaultSpeechMinutes = 10

var speechDurations = []int{5, 10, 15, 20}

// reportPromptTmpl asks for the full research report with a fixed
// fifteen-section structure.
var reportPromptTmpl = template.Must(template.New("report").Parse(`Generate a comprehensive, in-depth academic-level research report on "{{.Topic}}".

**IMPORTANT: Write the ENTIRE report in {{.Language}}.**

Use the following reference material gathered from the web to inform your report.
Do NOT simply summarize it — deeply analyze, synthesize, restructure, and expand
with your own knowledge to produce a thorough, well-organized research document.

--- REFERENCE MATERIAL ---
{{.Content}}
--- END REFERENCE MATERIAL ---

--- SOURCE URLS ---
{{.Sources}}
--- END SOURCE URLS ---

Follow this exact structure:

1. Executive Summary
2. Introduction
3. Historical Background & Evolution
4. Core Concepts and Theoretical Framework
5. Technical Architecture / Working Mechanism (if applicable)
6. Methodology & Research Approaches
7. Real-World Applications & Use Cases
8. Case Studies & Industry Examples
9. Comparative Analysis
10. Advantages and Strengths
11. Limitations, Challenges & Ethical Considerations
12. Current Trends and Innovations
13. Future Scope & Emerging Directions
14. Conclusion
15. References & Sources (numbered list — include URLs from the source list above)

FORMATTING RULES:
- Use clear headings and subheadings (e.g., "## 1. Executive Summary").
- Use bullet points where appropriate.
- Maintain professional academic tone throughout.
- Avoid repetition — each section must add unique value.
- Ensure logical flow between sections.
- Provide deep analysis, not surface-level explanation.
- Content must be detailed, analytical, and evidence-based — no filler text.
- Each section should have at least 3-4 substantive paragraphs or structured points.
- In the References section, include the actual URLs from the source material.
- Write everything in {{.Language}}.
`))

// slidesPromptTmpl asks for a fourteen-slide deck as bare JSON.
var slidesPromptTmpl = template.Must(template.New("slides").Parse(`Based on the following research report, generate a JSON array of slides
for a professional PowerPoint presentation.

**IMPORTANT: Write ALL slide content in {{.Language}}.**

--- RESEARCH REPORT ---
{{.Report}}
--- END RESEARCH REPORT ---

Generate EXACTLY 14 slides with this structure:

Slide 1: Title Slide — title = the topic name, bullets = ["Research Presentation", "Powered by ScholarMind"]
Slide 2: Executive Summary — 5-6 key bullet points
Slide 3: Introduction & Background — 5-6 bullet points
Slide 4: Historical Evolution — 5-6 bullet points
Slide 5: Core Concepts & Theory — 5-6 bullet points
Slide 6: Technical Architecture / How It Works — 5-6 bullet points
Slide 7: Research Methodology — 4-5 bullet points
Slide 8: Real-World Applications — 5-6 bullet points
Slide 9: Case Studies & Examples — 4-5 bullet points
Slide 10: Advantages & Strengths — 5-6 bullet points
Slide 11: Challenges & Limitations — 5-6 bullet points
Slide 12: Current Trends & Innovations — 5-6 bullet points
Slide 13: Future Scope & Conclusion — 5-6 bullet points
Slide 14: References — list 5-6 key references with URLs

CRITICAL RULES:
- Each bullet must be ONE concise sentence (max 15 words).
- Do NOT write paragraphs — only short, punchy bullet points.
- Return ONLY valid JSON — no markdown, no explanation.
- Write all content in {{.Language}}.

JSON format:
[
  {"title": "Slide Title", "bullets": ["Point 1", "Point 2", "Point 3"]},
  ...
]
`))

// speechPromptTmpl asks for a timed per-slide speaking script.
var speechPromptTmpl = template.Must(template.New("speech").Parse(`Generate a professional presentation speech script for the following research topic.

**IMPORTANT: Write the ENTIRE speech in {{.Language}}.**

The presentation has {{.NumSlides}} slides and the speech should be designed
for approximately {{.Duration}} minutes of speaking time.

--- SLIDE DATA ---
{{.SlidesJSON}}
--- END SLIDE DATA ---

--- RESEARCH SUMMARY ---
{{.ReportSummary}}
--- END RESEARCH SUMMARY ---

Generate a speech script with the following format:

For each slide, write:
- [SLIDE X: Title] (time: MM:SS - MM:SS)
- The spoken text for that slide (2-4 paragraphs per slide)
- Speaker notes/tips in brackets [Tip: ...]

RULES:
- Use a professional, engaging speaking tone.
- Include transitions between slides ("Moving on to...", "Let's now look at...").
- Add audience engagement cues ("As you can see...", "This is particularly important because...").
- Pace the speech naturally across the {{.Duration}}-minute duration.
- Include an opening greeting and closing thank you.
- Write everything in {{.Language}}.
`))

// chatPromptTmpl answers a follow-up question grounded in the report.
var chatPromptTmpl = template.Must(template.New("chat").Parse(`You are ScholarMind, an expert AI research assistant. The user has generated
a research report on "{{.Topic}}" and now wants to ask follow-up questions.

**Respond in {{.Language}}.**

--- RESEARCH REPORT CONTEXT ---
{{.ReportContext}}
--- END CONTEXT ---

User Question: {{.UserMessage}}

INSTRUCTIONS:
- Answer the question based on the research context above.
- If the question is about something not covered in the report, use your
  general knowledge but note that it's beyond the report's scope.
- Be detailed, helpful, and precise.
- Use bullet points and clear structure when appropriate.
- Respond in {{.Language}}.
`))

// ReportRequest builds the research report prompt from the merged corpus and
// the source list used to assemble it.
func ReportRequest(topic, corpus, language string, sources []types.SearchResult) (Request, error) {
	sourcesText := "No source URLs available."
	if len(sources) > 0 {
		var lines []string
		for _, s := range sources {
			title := s.Title
			if title == "" {
				title = "Source"
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", title, s.URL))
		}
		sourcesText = strings.Join(lines, "\n")
	}

	prompt, err := render(reportPromptTmpl, map[string]string{
		"Topic":    topic,
		"Language": language,
		"Content":  corpus,
		"Sources":  sourcesText,
	})
	if err != nil {
		return Request{}, err
	}
	return Request{Prompt: prompt, MaxTokens: reportMaxTokens, Temperature: reportTemperature}, nil
}

// SlidesRequest builds the slide deck prompt from a finished report.
func SlidesRequest(report, language string) (Request, error) {
	prompt, err := render(slidesPromptTmpl, map[string]string{
		"Report":   report,
		"Language": language,
	})
	if err != nil {
		return Request{}, err
	}
	return Request{Prompt: prompt, MaxTokens: slidesMaxTokens, Temperature: slidesTemperature}, nil
}

// SpeechRequest builds the speech prompt. The report is capped as summary
// context and the slides are serialized as indented JSON so the model can
// pace the script per slide.
func SpeechRequest(topic string, slides []types.Slide, report string, duration int, language string) (Request, error) {
	slidesJSON, err := json.MarshalIndent(slides, "", "  ")
	if err != nil {
		return Request{}, fmt.Errorf("serializing slides: %w", err)
	}

	prompt, err := render(speechPromptTmpl, map[string]any{
		"Topic":         topic,
		"Language":      language,
		"NumSlides":     len(slides),
		"Duration":      NormalizeDuration(duration),
		"SlidesJSON":    string(slidesJSON),
		"ReportSummary": capContext(report, speechReportContextCap),
	})
	if err != nil {
		return Request{}, err
	}
	return Request{Prompt: prompt, MaxTokens: speechMaxTokens, Temperature: speechTemperature}, nil
}

// ChatRequest builds the follow-up question prompt over the stored report.
func ChatRequest(message, topic, reportContext, language string) (Request, error) {
	context := capContext(reportContext, chatReportContextCap)
	if context == "" {
		context = "No research report has been generated yet. Answer using general knowledge."
	}

	prompt, err := render(chatPromptTmpl, map[string]string{
		"Topic":         topic,
		"Language":      language,
		"ReportContext": context,
		"UserMessage":   message,
	})
	if err != nil {
		return Request{}, err
	}
	return Request{Prompt: prompt, MaxTokens: chatMaxTokens, Temperature: chatTemperature}, nil
}

// NormalizeDuration snaps the requested speech length to a supported preset.
func NormalizeDuration(minutes int) int {
	for _, d := range speechDurations {
		if minutes == d {
			return minutes
		}
	}
	return defaultSpeechMinutes
}

// capContext truncates long context to the given limit, marking the cut.
func capContext(s string, limit int) string {
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
