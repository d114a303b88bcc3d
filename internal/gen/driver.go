// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultModels is the model priority order. Each model has a separate quota,
// so later entries act as fallbacks when an earlier one is exhausted.
var DefaultModels = []string{
	"gemini-2.0-flash",
	"gemini-2.5-flash",
	"gemini-2.5-pro",
}

// attemptsPerModel bounds retries against a single model before moving on.
const attemptsPerModel = 3

// rateLimitBaseDelay is the per-attempt backoff unit used when the API error
// does not suggest its own retry delay. Package-level var for test override.
var rateLimitBaseDelay = 10 * time.Second

// retryDelayPattern extracts the suggested retry delay from a rate-limit
// error body, e.g. "Please retry in 27.5s".
var retryDelayPattern = regexp.MustCompile(`(?i)retry\s*in\s*([\d.]+)s`)

// ErrNoAPIKey indicates the Gemini API key was never configured.
var ErrNoAPIKey = errors.New("gemini API key not set")

// ExhaustedError reports that every model in the priority list failed.
type ExhaustedError struct {
	Last error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all models failed, last error: %v", e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Driver runs generation requests through a model priority list with
// per-model rate-limit retries.
type Driver struct {
	Caller Caller
	Models []string
	Log    io.Writer
}

// NewGeminiDriver builds a Driver over the Gemini HTTP caller. It fails
// eagerly when no API key is configured so that no model is ever called
// without one.
func NewGeminiDriver(apiKey string, models []string, client *http.Client, log io.Writer) (*Driver, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Driver{
		Caller: &GeminiCaller{APIKey: apiKey, Client: client},
		Models: models,
		Log:    log,
	}, nil
}

func (d *Driver) log(format string, args ...any) {
	if d.Log != nil {
		fmt.Fprintf(d.Log, format+"\n", args...)
	}
}

// Generate tries each model in priority order, with up to attemptsPerModel
// attempts per model on rate-limit errors. A non-rate-limit error moves
// straight to the next model. When every model fails the last error is
// returned wrapped in ExhaustedError.
func (d *Driver) Generate(ctx context.Context, req Request) (string, error) {
	models := d.Models
	if len(models) == 0 {
		models = DefaultModels
	}

	var lastErr error
	for _, model := range models {
		for attempt := 0; attempt < attemptsPerModel; attempt++ {
			d.log("trying %s (attempt %d)", model, attempt+1)

			text, err := d.Caller.Generate(ctx, model, req)
			if err == nil {
				d.log("success with %s", model)
				return text, nil
			}
			lastErr = err

			if !rateLimited(err) {
				d.log("error with %s: %v", model, err)
				break
			}

			wait := retryDelay(err, attempt)
			if attempt == attemptsPerModel-1 {
				d.log("%s exhausted, trying next model", model)
				break
			}
			d.log("rate limited on %s, waiting %s", model, wait)

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", &ExhaustedError{Last: lastErr}
}

// rateLimited reports whether the error looks like a quota or rate-limit
// rejection from the API.
func rateLimited(err error) bool {
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "RESOURCE_EXHAUSTED")
}

// retryDelay returns the API-suggested delay when the error body carries one,
// otherwise a linear backoff on the attempt number (1-based).
func retryDelay(err error, attempt int) time.Duration {
	if m := retryDelayPattern.FindStringSubmatch(err.Error()); m != nil {
		if secs, perr := strconv.ParseFloat(m[1], 64); perr == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return time.Duration(attempt+1) * rateLimitBaseDelay
}
