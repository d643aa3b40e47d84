package news

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"ai-stock-forecaster/internal/interfaces"
)

// NewsAPIClient fetches recent headlines from newsapi.org.
type NewsAPIClient struct {
	client   *resty.Client
	apiKey   string
	language string
	pageSize int
}

var _ interfaces.HeadlineSource = (*NewsAPIClient)(nil)

// NewNewsAPIClient creates a NewsAPI headline source. The endpoint can be
// overridden via NEWS_API_ENDPOINT (useful for proxies and tests).
func NewNewsAPIClient(apiKey, language string, pageSize int) *NewsAPIClient {
	baseURL := "https://newsapi.org"
	if ep := os.Getenv("NEWS_API_ENDPOINT"); ep != "" {
		baseURL = ep
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(15 * time.Second)

	return &NewsAPIClient{
		client:   client,
		apiKey:   apiKey,
		language: language,
		pageSize: pageSize,
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// Headlines returns the most recent article titles for symbol.
func (c *NewsAPIClient) Headlines(ctx context.Context, symbol string) ([]string, error) {
	var out newsAPIResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        symbol,
			"language": c.language,
			"sortBy":   "publishedAt",
			"pageSize": strconv.Itoa(c.pageSize),
			"apiKey":   c.apiKey,
		}).
		SetResult(&out).
		Get("/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("newsapi request for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("newsapi http %d for %s", resp.StatusCode(), symbol)
	}

	titles := make([]string, 0, len(out.Articles))
	for _, a := range out.Articles {
		if a.Title != "" {
			titles = append(titles, a.Title)
		}
	}
	return titles, nil
}
