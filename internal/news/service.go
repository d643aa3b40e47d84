package news

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"ai-stock-forecaster/internal/config"
	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/logger"
)

// PlaceholderNoNews is used whenever no headlines are available. News is an
// enrichment input; its absence never fails a symbol.
const PlaceholderNoNews = "No recent news found."

// Service wraps a headline source and degrades every failure mode to a
// placeholder string suitable for prompt embedding.
type Service struct {
	source interfaces.HeadlineSource
}

// NewService creates a service around a headline source. A nil source means
// news enrichment is disabled.
func NewService(source interfaces.HeadlineSource) *Service {
	return &Service{source: source}
}

// FromConfig builds the service the configuration asks for. A missing
// NEWS_API_KEY downgrades the newsapi provider to disabled, not to an error.
func FromConfig(ctx context.Context, cfg *config.Config) *Service {
	switch cfg.News.Provider {
	case "newsapi":
		key := os.Getenv("NEWS_API_KEY")
		if key == "" {
			logger.Warn(ctx, "NEWS_API_KEY not set - news enrichment disabled")
			return NewService(nil)
		}
		return NewService(NewNewsAPIClient(key, cfg.News.Language, cfg.News.PageSize))
	case "scrape":
		return NewService(NewScraper(30 * time.Second))
	default:
		return NewService(nil)
	}
}

// HeadlineText returns headlines for symbol formatted as a bullet list, or a
// placeholder. It never returns an error.
func (s *Service) HeadlineText(ctx context.Context, symbol string) string {
	if s.source == nil {
		return PlaceholderNoNews
	}

	headlines, err := s.source.Headlines(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "News fetch failed", "symbol", symbol, "error", err)
		return fmt.Sprintf("Could not fetch news: %v", err)
	}
	if len(headlines) == 0 {
		return PlaceholderNoNews
	}

	var b strings.Builder
	for _, h := range headlines {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	return strings.TrimRight(b.String(), "\n")
}
