package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/studyforge/studyforge/internal/domain"
)

// userAgent identifies the service to fetched sites.
const userAgent = "Mozilla/5.0 (compatible; StudyForge/1.0)"

// Extractor acquires readable article content from external sources.
type Extractor struct {
	logger *slog.Logger
	client *http.Client
}

// NewExtractor creates an Extractor with a bounded-timeout HTTP client.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FromURL fetches the page at rawURL and extracts its main article content.
// Pages without extractable article content (index pages, apps) yield
// ErrUnreadablePage.
func (e *Extractor) FromURL(ctx context.Context, rawURL string) (*domain.Article, error) {
	pageURL, err := url.ParseRequestURI(rawURL)
	if err != nil || pageURL.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, resp.Status)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePage, err)
	}

	if article.TextContent == "" {
		return nil, fmt.Errorf("%w: it may not be an article", ErrUnreadablePage)
	}

	result, err := domain.NewArticle(article.Title, article.TextContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePage, err)
	}
	result.Excerpt = article.Excerpt
	result.Byline = article.Byline
	result.SiteName = article.SiteName

	e.logger.InfoContext(ctx, "extracted article",
		"url", pageURL.String(),
		"title", result.Title,
		"length", result.Length)
	return result, nil
}
