// DuckDuckGo HTML [Searcher]
package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultSearchEndpoint = "https://html.duckduckgo.com/html/"
	defaultMaxResults     = 5
)

// DuckDuckGoSearcherOpts configures [DuckDuckGoSearcher].
type DuckDuckGoSearcherOpts struct {
	Endpoint   string
	MaxResults int
	RateLimit  float64 // requests per second, shared by all callers
	UserAgent  string
	HTTPClient *http.Client
}

// DuckDuckGoSearcher scrapes DuckDuckGo's HTML results page.
type DuckDuckGoSearcher struct {
	endpoint   string
	maxResults int
	limiter    *rate.Limiter
	fetch      fetcher
}

// NewDuckDuckGoSearcher creates a rate-limited searcher.
func NewDuckDuckGoSearcher(opts DuckDuckGoSearcherOpts) *DuckDuckGoSearcher {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultSearchEndpoint
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &DuckDuckGoSearcher{
		endpoint:   opts.Endpoint,
		maxResults: opts.MaxResults,
		limiter:    rate.NewLimiter(limit, 1),
		fetch:      newFetcher(opts.HTTPClient, opts.UserAgent, ""),
	}
}

// Search returns up to MaxResults hits for query.
func (d *DuckDuckGoSearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u, err := url.Parse(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: search endpoint: %v", shared.ErrInvalidConfig, err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	resp, err := d.fetch.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: search returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return d.parse(resp.Body)
}

func (d *DuckDuckGoSearcher) parse(body []byte) ([]models.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var results []models.SearchResult
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}

		link := s.Find("a.result__a").First()
		title := shared.CollapseSpace(link.Text())
		snippet := shared.CollapseSpace(s.Find(".result__snippet").Text())
		if title == "" && snippet == "" {
			return true
		}

		href, _ := link.Attr("href")
		results = append(results, models.SearchResult{
			Title:   title,
			URL:     resolveResultURL(href),
			Snippet: snippet,
		})
		return len(results) < d.maxResults
	})

	return results, nil
}

// resolveResultURL unwraps DuckDuckGo's redirect links ("//duckduckgo.com/l/?uddg=...").
func resolveResultURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
