package forecast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ai-stock-forecaster/internal/config"
	"ai-stock-forecaster/internal/types"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.PromptBars = 30
	cfg.Forecast.Model = "gemini-1.5-flash-latest"
	cfg.Forecast.TimeoutSeconds = 5
	cfg.Forecast.MaxAttempts = 3
	// RetryDelaySeconds stays zero so retries do not slow the tests down.
	return cfg
}

func testBars(n int) []types.Bar {
	bars := make([]types.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, types.Bar{
			Date:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   decimal.NewFromFloat(150.0 + float64(i)),
			High:   decimal.NewFromFloat(152.0 + float64(i)),
			Low:    decimal.NewFromFloat(149.0 + float64(i)),
			Close:  decimal.NewFromFloat(151.0 + float64(i)),
			Volume: 1_000_000,
		})
	}
	return bars
}

func candidateBody(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func TestAnalyzeSingleAttemptOnSuccess(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(candidateBody(`{"sentiment":"bullish","reasoning":"momentum","predicted_low":150.5,"predicted_high":158.0}`)))
	}))
	defer srv.Close()

	t.Setenv("GEMINI_API_ENDPOINT", srv.URL)
	g := NewGemini("test-key", testConfig())

	fc, err := g.Analyze(context.Background(), "AAPL", testBars(40), "No recent news found.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if calls != 1 {
		t.Errorf("Expected exactly 1 network call, got %d", calls)
	}
	if fc.Sentiment != types.SentimentBullish {
		t.Errorf("Expected normalized Bullish sentiment, got %q", fc.Sentiment)
	}
	if fc.Reasoning != "momentum" {
		t.Errorf("Expected reasoning preserved, got %q", fc.Reasoning)
	}
	if fc.PredictedLow == nil || *fc.PredictedLow != 150.5 {
		t.Errorf("Expected predicted_low 150.5, got %v", fc.PredictedLow)
	}
	if fc.PredictedHigh == nil || *fc.PredictedHigh != 158.0 {
		t.Errorf("Expected predicted_high 158.0, got %v", fc.PredictedHigh)
	}
}

func TestAnalyzeStripsMarkdownFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateBody("```json\n{\"sentiment\":\"Neutral\",\"reasoning\":\"flat\",\"predicted_low\":100,\"predicted_high\":110}\n```")))
	}))
	defer srv.Close()

	t.Setenv("GEMINI_API_ENDPOINT", srv.URL)
	g := NewGemini("test-key", testConfig())

	fc, err := g.Analyze(context.Background(), "MSFT", testBars(5), "")
	if err != nil {
		t.Fatalf("Expected fenced JSON to parse, got %v", err)
	}
	if fc.Sentiment != types.SentimentNeutral {
		t.Errorf("Expected Neutral, got %q", fc.Sentiment)
	}
}

func TestAnalyzeMissingKeysStayNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateBody(`{"sentiment":"Bearish","reasoning":"guidance cut"}`)))
	}))
	defer srv.Close()

	t.Setenv("GEMINI_API_ENDPOINT", srv.URL)
	g := NewGemini("test-key", testConfig())

	fc, err := g.Analyze(context.Background(), "TSLA", testBars(5), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fc.PredictedLow != nil || fc.PredictedHigh != nil {
		t.Errorf("Expected nil bounds for missing keys, got %v / %v", fc.PredictedLow, fc.PredictedHigh)
	}
}

func TestAnalyzeRetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			// "candidates" absent: the model refused to answer.
			w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
			return
		}
		w.Write([]byte(candidateBody(`{"sentiment":"Bullish","reasoning":"ok","predicted_low":10,"predicted_high":12}`)))
	}))
	defer srv.Close()

	t.Setenv("GEMINI_API_ENDPOINT", srv.URL)
	g := NewGemini("test-key", testConfig())

	fc, err := g.Analyze(context.Background(), "GOOGL", testBars(5), "")
	if err != nil {
		t.Fatalf("Expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 network calls, got %d", calls)
	}
	if fc.Sentiment != types.SentimentBullish {
		t.Errorf("Expected Bullish, got %q", fc.Sentiment)
	}
}

func TestAnalyzeExhaustsRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(candidateBody(`not json at all`)))
	}))
	defer srv.Close()

	t.Setenv("GEMINI_API_ENDPOINT", srv.URL)
	g := NewGemini("test-key", testConfig())

	_, err := g.Analyze(context.Background(), "AAPL", testBars(5), "")
	if err == nil {
		t.Fatal("Expected error after retries exhausted")
	}
	if !errors.Is(err, ErrForecast) {
		t.Errorf("Expected ErrForecast, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected at most 3 network calls, got %d", calls)
	}
	if !strings.Contains(err.Error(), "parse forecast JSON") {
		t.Errorf("Expected last cause carried on error, got %v", err)
	}
}

func TestAnalyzeEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with empty body
	}))
	defer srv.Close()

	t.Setenv("GEMINI_API_ENDPOINT", srv.URL)
	g := NewGemini("test-key", testConfig())

	_, err := g.Analyze(context.Background(), "AAPL", testBars(5), "")
	if !errors.Is(err, ErrForecast) {
		t.Fatalf("Expected ErrForecast for empty body, got %v", err)
	}
}

func TestBuildPromptTailsBars(t *testing.T) {
	bars := testBars(40)
	prompt := BuildPrompt("AAPL", bars, "- Apple ships new chip", 30)

	if !strings.Contains(prompt, "**AAPL**") {
		t.Error("Expected symbol in prompt")
	}
	if !strings.Contains(prompt, "- Apple ships new chip") {
		t.Error("Expected news text in prompt")
	}
	// First 10 bars fall outside the 30-bar tail.
	if strings.Contains(prompt, bars[0].Date.Format("2006-01-02")) {
		t.Error("Expected oldest bar excluded from 30-bar tail")
	}
	if !strings.Contains(prompt, bars[39].Date.Format("2006-01-02")) {
		t.Error("Expected newest bar included")
	}
	if !strings.Contains(prompt, bars[10].Date.Format("2006-01-02")) {
		t.Error("Expected 30th-from-last bar included")
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, c := range cases {
		if got := stripFences(c.in); got != c.want {
			t.Errorf("stripFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
