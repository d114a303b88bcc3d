// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiCallerGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"part one "},{"text":"part two"}]}}]}`)
	}))
	defer ts.Close()

	old := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = old }()

	c := &GeminiCaller{APIKey: "test-key", Client: ts.Client()}
	got, err := c.Generate(context.Background(), "gemini-2.0-flash", Request{
		Prompt:      "Explain quantum computing.",
		MaxTokens:   8192,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got != "part one part two" {
		t.Errorf("Generate = %q, want concatenated parts", got)
	}
	if gotPath != "/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("request contents = %+v", gotBody.Contents)
	}
	if gotBody.Contents[0].Parts[0].Text != "Explain quantum computing." {
		t.Errorf("prompt text = %q", gotBody.Contents[0].Parts[0].Text)
	}
	if gotBody.GenerationConfig.MaxOutputTokens != 8192 {
		t.Errorf("maxOutputTokens = %d", gotBody.GenerationConfig.MaxOutputTokens)
	}
	if gotBody.GenerationConfig.Temperature != 0.7 {
		t.Errorf("temperature = %g", gotBody.GenerationConfig.Temperature)
	}
}

func TestGeminiCallerErrorCarriesStatusAndBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"status":"RESOURCE_EXHAUSTED","message":"Please retry in 12.5s."}}`)
	}))
	defer ts.Close()

	old := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = old }()

	c := &GeminiCaller{APIKey: "test-key", Client: ts.Client()}
	_, err := c.Generate(context.Background(), "gemini-2.0-flash", Request{Prompt: "x"})
	if err == nil {
		t.Fatal("Generate succeeded, want error")
	}

	// The driver classifies and backs off from this message alone.
	if !rateLimited(err) {
		t.Errorf("error %q should classify as rate limited", err)
	}
	if got := retryDelay(err, 0); got.Seconds() != 12.5 {
		t.Errorf("retryDelay = %v, want the suggested 12.5s", got)
	}
}

func TestGeminiCallerEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer ts.Close()

	old := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = old }()

	c := &GeminiCaller{APIKey: "test-key", Client: ts.Client()}
	_, err := c.Generate(context.Background(), "gemini-2.0-flash", Request{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Errorf("Generate error = %v, want no-candidates error", err)
	}
}
