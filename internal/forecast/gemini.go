package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"ai-stock-forecaster/internal/config"
	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/logger"
	"ai-stock-forecaster/internal/types"
)

// ErrForecast signals that the text-generation endpoint could not produce a
// usable forecast after all retry attempts. Symbol-scoped, non-fatal.
var ErrForecast = errors.New("forecast failed")

// Gemini implements the Forecaster interface against the Gemini
// generateContent API.
type Gemini struct {
	apiKey      string
	model       string
	endpoint    string
	promptBars  int
	maxAttempts int
	retryDelay  time.Duration
	timeout     time.Duration
	httpClient  *http.Client
}

var _ interfaces.Forecaster = (*Gemini)(nil)

// NewGemini creates a Gemini forecast client. The endpoint can be overridden
// via GEMINI_API_ENDPOINT (proxies, tests).
func NewGemini(apiKey string, cfg *config.Config) *Gemini {
	endpoint := "https://generativelanguage.googleapis.com"
	if ep := os.Getenv("GEMINI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Gemini{
		apiKey:      apiKey,
		model:       cfg.Forecast.Model,
		endpoint:    endpoint,
		promptBars:  cfg.PromptBars,
		maxAttempts: cfg.Forecast.MaxAttempts,
		retryDelay:  time.Duration(cfg.Forecast.RetryDelaySeconds) * time.Second,
		timeout:     time.Duration(cfg.Forecast.TimeoutSeconds) * time.Second,
		httpClient:  http.DefaultClient,
	}
}

func (g *Gemini) url() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.endpoint, g.model, url.QueryEscape(g.apiKey))
}

// Analyze builds the prompt and calls the model, retrying transient failures
// with a fixed inter-attempt delay. Every failure mode (network, empty body,
// blocked response, malformed JSON) is treated uniformly as retryable; the
// last cause is carried on the final error.
func (g *Gemini) Analyze(ctx context.Context, symbol string, bars []types.Bar, newsText string) (types.ForecastRange, error) {
	prompt := BuildPrompt(symbol, bars, newsText, g.promptBars)

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if attempt > 1 && g.retryDelay > 0 {
			time.Sleep(g.retryDelay)
		}

		fc, err := g.call(ctx, prompt)
		if err == nil {
			return fc, nil
		}
		lastErr = err
		logger.Warn(ctx, "Forecast attempt failed",
			"symbol", symbol,
			"attempt", attempt,
			"max_attempts", g.maxAttempts,
			"error", err,
		)
	}

	return types.ForecastRange{}, fmt.Errorf("%w for %s after %d attempts: %w", ErrForecast, symbol, g.maxAttempts, lastErr)
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	PromptFeedback json.RawMessage `json:"promptFeedback"`
}

// call performs one generateContent round trip.
func (g *Gemini) call(ctx context.Context, prompt string) (types.ForecastRange, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	bb, _ := json.Marshal(reqBody)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", g.url(), bytes.NewReader(bb))
	if err != nil {
		return types.ForecastRange{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return types.ForecastRange{}, err
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		return types.ForecastRange{}, fmt.Errorf("gemini http %d: %s", resp.StatusCode, string(respBytes))
	}
	if len(bytes.TrimSpace(respBytes)) == 0 {
		return types.ForecastRange{}, errors.New("empty response body")
	}

	var envelope geminiResponse
	if err := json.Unmarshal(respBytes, &envelope); err != nil {
		return types.ForecastRange{}, fmt.Errorf("malformed response envelope: %w", err)
	}

	// No candidates means the model refused or the prompt was blocked.
	if len(envelope.Candidates) == 0 {
		reason := "unknown"
		if len(envelope.PromptFeedback) > 0 {
			reason = string(envelope.PromptFeedback)
		}
		return types.ForecastRange{}, fmt.Errorf("response blocked or empty, reason: %s", reason)
	}
	if len(envelope.Candidates[0].Content.Parts) == 0 {
		return types.ForecastRange{}, errors.New("first candidate has no content parts")
	}

	return parseForecastFromText(envelope.Candidates[0].Content.Parts[0].Text)
}

// parseForecastFromText strips Markdown fence artifacts and parses the
// remaining text as the forecast JSON object. Missing keys stay null.
func parseForecastFromText(text string) (types.ForecastRange, error) {
	clean := stripFences(text)

	var fc types.ForecastRange
	if err := json.Unmarshal([]byte(clean), &fc); err != nil {
		return types.ForecastRange{}, fmt.Errorf("parse forecast JSON: %w", err)
	}
	normalizeForecast(&fc)
	return fc, nil
}

func stripFences(s string) string {
	t := strings.TrimSpace(s)
	t = strings.ReplaceAll(t, "```json", "")
	t = strings.ReplaceAll(t, "```", "")
	return strings.TrimSpace(t)
}

// normalizeForecast canonicalizes sentiment casing when it matches a known
// value. Anything else passes through untouched.
func normalizeForecast(fc *types.ForecastRange) {
	switch strings.ToLower(strings.TrimSpace(fc.Sentiment)) {
	case "bullish":
		fc.Sentiment = types.SentimentBullish
	case "bearish":
		fc.Sentiment = types.SentimentBearish
	case "neutral":
		fc.Sentiment = types.SentimentNeutral
	}
}
