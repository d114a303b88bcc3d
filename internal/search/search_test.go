// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/scholarmind/scholarmind/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	name    string
	results []types.SearchResult
	err     error
	calls   int
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Search(_ context.Context, _ string, _ types.SearchConfig) ([]types.SearchResult, error) {
	m.calls++
	return m.results, m.err
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults: 10,
	}
}

func resultSet(source string, n int) []types.SearchResult {
	var rs []types.SearchResult
	for i := 0; i < n; i++ {
		rs = append(rs, types.SearchResult{
			URL:    fmt.Sprintf("https://%s.example.com/page-%d", source, i),
			Title:  fmt.Sprintf("%s page %d", source, i),
			Source: source,
		})
	}
	return rs
}

// --- Aggregator ---

func TestAggregatorDeduplicatesByURL(t *testing.T) {
	shared := types.SearchResult{URL: "https://example.com/shared", Title: "Shared", Source: "wikipedia"}
	a := Aggregator{
		Primary: []Backend{
			&mockBackend{name: "wikipedia", results: []types.SearchResult{shared, {URL: "https://example.com/a", Title: "A"}}},
			&mockBackend{name: "duckduckgo", results: []types.SearchResult{shared, {URL: "https://example.com/b", Title: "B"}}},
		},
	}

	got := a.Search(context.Background(), "topic", testCfg(), &bytes.Buffer{})

	seen := make(map[string]bool)
	for _, r := range got {
		if seen[r.URL] {
			t.Errorf("duplicate URL in results: %s", r.URL)
		}
		seen[r.URL] = true
	}
	if len(got) != 3 {
		t.Errorf("len(results) = %d, want 3", len(got))
	}
	// Insertion order: first backend's results lead.
	if got[0].URL != shared.URL {
		t.Errorf("results[0].URL = %q, want %q", got[0].URL, shared.URL)
	}
}

func TestAggregatorSkipsFallbackWhenEnoughResults(t *testing.T) {
	fallback := &mockBackend{name: "bing", results: resultSet("bing", 6)}
	a := Aggregator{
		Primary: []Backend{
			&mockBackend{name: "wikipedia", results: resultSet("wikipedia", 2)},
			&mockBackend{name: "duckduckgo", results: resultSet("duckduckgo", 2)},
		},
		Fallback: fallback,
	}

	a.Search(context.Background(), "topic", testCfg(), &bytes.Buffer{})

	if fallback.calls != 0 {
		t.Errorf("fallback backend queried %d times with 4 unique primary results, want 0", fallback.calls)
	}
}

func TestAggregatorQueriesFallbackWhenShort(t *testing.T) {
	fallback := &mockBackend{name: "bing", results: resultSet("bing", 3)}
	a := Aggregator{
		Primary: []Backend{
			&mockBackend{name: "wikipedia", results: resultSet("wikipedia", 2)},
			&mockBackend{name: "duckduckgo", results: resultSet("duckduckgo", 1)},
		},
		Fallback: fallback,
	}

	got := a.Search(context.Background(), "topic", testCfg(), &bytes.Buffer{})

	if fallback.calls != 1 {
		t.Fatalf("fallback backend queried %d times with 3 unique primary results, want 1", fallback.calls)
	}
	if len(got) != 6 {
		t.Errorf("len(results) = %d, want 6", len(got))
	}
}

func TestAggregatorContinuesAfterBackendFailure(t *testing.T) {
	var buf bytes.Buffer
	a := Aggregator{
		Primary: []Backend{
			&mockBackend{name: "wikipedia", err: fmt.Errorf("connection refused")},
			&mockBackend{name: "duckduckgo", results: resultSet("duckduckgo", 2)},
		},
	}

	got := a.Search(context.Background(), "topic", testCfg(), &buf)

	if len(got) != 2 {
		t.Errorf("len(results) = %d, want 2", len(got))
	}
	if !strings.Contains(buf.String(), "warning: backend wikipedia failed") {
		t.Errorf("expected failure warning in output, got %q", buf.String())
	}
}

func TestAggregatorAllBackendsFail(t *testing.T) {
	a := Aggregator{
		Primary: []Backend{
			&mockBackend{name: "wikipedia", err: fmt.Errorf("boom")},
			&mockBackend{name: "duckduckgo", err: fmt.Errorf("boom")},
		},
		Fallback: &mockBackend{name: "bing", err: fmt.Errorf("boom")},
	}

	got := a.Search(context.Background(), "topic", testCfg(), &bytes.Buffer{})
	if len(got) != 0 {
		t.Errorf("len(results) = %d, want 0 when every backend fails", len(got))
	}
}

func TestAggregatorFiltersBlockedDomains(t *testing.T) {
	a := Aggregator{
		Primary: []Backend{
			&mockBackend{name: "duckduckgo", results: []types.SearchResult{
				{URL: "https://www.youtube.com/watch?v=abc", Title: "Video"},
				{URL: "https://en.wikipedia.org/wiki/Topic", Title: "Article"},
				{URL: "https://www.reddit.com/r/topic", Title: "Thread"},
				{URL: "ftp://example.com/file", Title: "Not HTTP"},
			}},
		},
	}

	got := a.Search(context.Background(), "topic", testCfg(), &bytes.Buffer{})
	if len(got) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(got))
	}
	if got[0].URL != "https://en.wikipedia.org/wiki/Topic" {
		t.Errorf("surviving URL = %q", got[0].URL)
	}
}

func TestAggregatorTruncatesToMaxResults(t *testing.T) {
	cfg := testCfg()
	cfg.MaxResults = 3
	a := Aggregator{
		Primary: []Backend{&mockBackend{name: "duckduckgo", results: resultSet("duckduckgo", 8)}},
	}

	got := a.Search(context.Background(), "topic", cfg, &bytes.Buffer{})
	if len(got) != 3 {
		t.Errorf("len(results) = %d, want 3", len(got))
	}
}

func TestBlockedDomain(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=x", true},
		{"https://YouTube.com/c/channel", true},
		{"https://lite.duckduckgo.com/lite/", true},
		{"https://en.wikipedia.org/wiki/Go", false},
		{"https://example.com/article", false},
	}
	for _, tt := range tests {
		if got := blockedDomain(tt.url); got != tt.want {
			t.Errorf("blockedDomain(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

// --- formatting ---

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(resultSet("bing", 2), &buf)
	out := buf.String()
	if !strings.Contains(out, "bing page 0") || !strings.Contains(out, "2 results") {
		t.Errorf("unexpected table output:\n%s", out)
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("unexpected empty-table output: %q", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(resultSet("wikipedia", 2), &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	var decoded []types.SearchResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("decoded %d results, want 2", len(decoded))
	}
}
