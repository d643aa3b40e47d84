package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeSource struct {
	headlines []string
	err       error
}

func (f *fakeSource) Headlines(_ context.Context, _ string) ([]string, error) {
	return f.headlines, f.err
}

func TestHeadlineTextDisabled(t *testing.T) {
	svc := NewService(nil)

	got := svc.HeadlineText(context.Background(), "AAPL")
	if got != PlaceholderNoNews {
		t.Errorf("Expected placeholder when disabled, got %q", got)
	}
}

func TestHeadlineTextFormatsBullets(t *testing.T) {
	svc := NewService(&fakeSource{headlines: []string{"Apple ships new chip", "iPhone sales up"}})

	got := svc.HeadlineText(context.Background(), "AAPL")
	want := "- Apple ships new chip\n- iPhone sales up"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestHeadlineTextEmptyResult(t *testing.T) {
	svc := NewService(&fakeSource{})

	got := svc.HeadlineText(context.Background(), "AAPL")
	if got != PlaceholderNoNews {
		t.Errorf("Expected placeholder for empty headlines, got %q", got)
	}
}

func TestHeadlineTextFetchFailure(t *testing.T) {
	svc := NewService(&fakeSource{err: errors.New("connection refused")})

	got := svc.HeadlineText(context.Background(), "AAPL")
	if !strings.HasPrefix(got, "Could not fetch news: ") {
		t.Errorf("Expected degraded message, got %q", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("Expected cause in message, got %q", got)
	}
}

func TestNewsAPIClientHeadlines(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":        r.URL.Query().Get("q"),
			"sortBy":   r.URL.Query().Get("sortBy"),
			"pageSize": r.URL.Query().Get("pageSize"),
			"apiKey":   r.URL.Query().Get("apiKey"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","articles":[{"title":"Tesla opens new factory"},{"title":""},{"title":"Tesla beats delivery estimates"}]}`))
	}))
	defer srv.Close()

	t.Setenv("NEWS_API_ENDPOINT", srv.URL)
	client := NewNewsAPIClient("test-key", "en", 10)

	titles, err := client.Headlines(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("Expected 2 non-empty titles, got %d", len(titles))
	}
	if titles[0] != "Tesla opens new factory" {
		t.Errorf("Unexpected first title %q", titles[0])
	}

	if gotQuery["q"] != "TSLA" {
		t.Errorf("Expected q=TSLA, got %q", gotQuery["q"])
	}
	if gotQuery["sortBy"] != "publishedAt" {
		t.Errorf("Expected sortBy=publishedAt, got %q", gotQuery["sortBy"])
	}
	if gotQuery["pageSize"] != "10" {
		t.Errorf("Expected pageSize=10, got %q", gotQuery["pageSize"])
	}
	if gotQuery["apiKey"] != "test-key" {
		t.Errorf("Expected apiKey=test-key, got %q", gotQuery["apiKey"])
	}
}

func TestNewsAPIClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	t.Setenv("NEWS_API_ENDPOINT", srv.URL)
	client := NewNewsAPIClient("test-key", "en", 10)

	if _, err := client.Headlines(context.Background(), "TSLA"); err == nil {
		t.Fatal("Expected error for HTTP 429")
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML(`<a href="https://example.com">Markets rally</a>&nbsp;- Example News`)
	if !strings.Contains(got, "Markets rally") {
		t.Errorf("Expected text extracted from HTML, got %q", got)
	}
	if strings.Contains(got, "<a") {
		t.Errorf("Expected tags removed, got %q", got)
	}
}
