package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/gocolly/colly/v2"

	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/logger"
)

const scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper is a keyless fallback headline source. It tries the Yahoo Finance
// news page first and falls back to the Google News RSS feed.
type Scraper struct {
	client  *resty.Client
	timeout time.Duration
}

var _ interfaces.HeadlineSource = (*Scraper)(nil)

// NewScraper creates a scraping headline source.
func NewScraper(timeout time.Duration) *Scraper {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", scrapeUserAgent)
	return &Scraper{client: client, timeout: timeout}
}

// Headlines scrapes recent headlines for symbol.
func (s *Scraper) Headlines(ctx context.Context, symbol string) ([]string, error) {
	titles, err := s.scrapeYahoo(ctx, symbol)
	if err == nil && len(titles) > 0 {
		return titles, nil
	}
	if err != nil {
		logger.Warn(ctx, "Yahoo news scrape failed, trying Google News RSS", "symbol", symbol, "error", err)
	}
	return s.fetchGoogleNewsRSS(ctx, symbol)
}

// scrapeYahoo collects headline anchors from the symbol's Yahoo Finance
// news page.
func (s *Scraper) scrapeYahoo(ctx context.Context, symbol string) ([]string, error) {
	var titles []string

	c := colly.NewCollector(
		colly.AllowedDomains("finance.yahoo.com"),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scrapeUserAgent)
	})

	c.OnHTML("section h3", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		if title != "" {
			titles = append(titles, title)
		}
	})

	var scrapeErr error
	c.OnError(func(_ *colly.Response, err error) {
		scrapeErr = err
	})

	if err := c.Visit(fmt.Sprintf("https://finance.yahoo.com/quote/%s/news", url.PathEscape(symbol))); err != nil {
		return nil, fmt.Errorf("yahoo news visit for %s: %w", symbol, err)
	}
	if scrapeErr != nil {
		return nil, fmt.Errorf("yahoo news scrape for %s: %w", symbol, scrapeErr)
	}
	return titles, nil
}

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// fetchGoogleNewsRSS reads the Google News search feed for the symbol.
func (s *Scraper) fetchGoogleNewsRSS(ctx context.Context, symbol string) ([]string, error) {
	feedURL := fmt.Sprintf(
		"https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(symbol+" stock"),
	)

	resp, err := s.client.R().SetContext(ctx).Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("google news rss for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("google news rss http %d for %s", resp.StatusCode(), symbol)
	}

	var feed rssFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("google news rss parse for %s: %w", symbol, err)
	}

	titles := make([]string, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			// Descriptions carry markup; strip it before using as headline.
			title = stripHTML(item.Description)
		}
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// stripHTML extracts plain text from an HTML fragment.
func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
