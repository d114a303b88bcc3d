// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/scholarmind/scholarmind/pkg/types"
)

// deckSize is the number of slides in every generated deck.
const deckSize = 14

var (
	fenceOpenPattern  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClosePattern = regexp.MustCompile("\\s*```$")
)

// fallbackSections are the deck sections used when the model's JSON cannot be
// parsed. Together with the title slide they make up the full deck.
var fallbackSections = []string{
	"Executive Summary", "Introduction & Background",
	"Historical Evolution", "Core Concepts & Theory",
	"Technical Architecture", "Research Methodology",
	"Real-World Applications", "Case Studies",
	"Advantages & Strengths", "Challenges & Limitations",
	"Current Trends", "Future Scope & Conclusion",
	"References",
}

// ParseSlides turns the model's raw slide response into a deck. Markdown code
// fences are stripped before parsing; unparseable responses fall back to a
// deterministic deck, so ParseSlides never fails. The first slide's title is
// always forced to the topic.
func ParseSlides(topic, raw string) []types.Slide {
	raw = strings.TrimSpace(raw)
	raw = fenceOpenPattern.ReplaceAllString(raw, "")
	raw = fenceClosePattern.ReplaceAllString(raw, "")

	var slides []types.Slide
	if err := json.Unmarshal([]byte(raw), &slides); err != nil || len(slides) == 0 {
		slides = FallbackDeck(topic)
	}

	slides[0].Title = topic
	return slides
}

// FallbackDeck builds the deterministic deck used when slide generation or
// parsing fails: a title slide followed by one slide per fallback section.
func FallbackDeck(topic string) []types.Slide {
	slides := []types.Slide{
		{Title: topic, Bullets: []string{"Research Presentation", "Powered by ScholarMind"}},
	}

	for _, section := range fallbackSections {
		lower := strings.ToLower(section)
		slides = append(slides, types.Slide{
			Title: section,
			Bullets: []string{
				fmt.Sprintf("Key insight about %s in %s", lower, topic),
				fmt.Sprintf("Important aspect of %s", lower),
				fmt.Sprintf("Notable finding related to %s", lower),
				"Significant development in this area",
			},
		})
	}

	return slides[:deckSize]
}
