package presence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "crosslaunch-workers/internal/common/http"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	NewsSourceName        = "news"
	DefaultNewsAPIBaseURL = "https://newsapi.org/v2"

	topSourceLimit = 5
)

// countrySearchTerms disambiguate news queries with the names a country is
// commonly written under.
var countrySearchTerms = map[string]string{
	"BR": "Brazil OR Brasil",
	"IN": "India",
	"NG": "Nigeria",
	"ID": "Indonesia",
	"MX": "Mexico OR México",
}

// CountrySearchTerm returns the news disambiguation term for a country code,
// falling back to the code itself.
func CountrySearchTerm(countryCode string) string {
	if term, ok := countrySearchTerms[strings.ToUpper(countryCode)]; ok {
		return term
	}
	return countryCode
}

// Article is the subset of a news item the coverage score needs.
type Article struct {
	URL         string
	Source      string
	PublishedAt time.Time
}

type NewsAPIConfig struct {
	BaseURL string
	APIKey  string
	Now     func() time.Time
}

// NewsAPISource measures media coverage from the NewsAPI "everything" endpoint.
type NewsAPISource struct {
	client  *commonhttp.Client
	baseURL string
	apiKey  string
	now     func() time.Time
	logger  logger.Logger
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   *string `json:"id"`
			Name string  `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func NewNewsAPISource(cfg NewsAPIConfig, client *commonhttp.Client, log logger.Logger) *NewsAPISource {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultNewsAPIBaseURL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &NewsAPISource{
		client:  client,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		now:     now,
		logger:  log.WithFields(map[string]interface{}{"source": NewsSourceName, "backend": "newsapi"}),
	}
}

func (s *NewsAPISource) Name() string { return NewsSourceName }

func (s *NewsAPISource) Measure(ctx context.Context, country string, keywords []string) Result[models.MediaCoverage] {
	term := CountrySearchTerm(country)
	pages := make([][]Article, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			articles, err := s.search(gctx, kw+" "+term)
			if err != nil {
				return err
			}
			pages[i] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("media coverage degraded", map[string]interface{}{
			"country": country,
			"error":   err.Error(),
		})
		return Degraded(NeutralMediaCoverage(), err)
	}

	var all []Article
	for _, p := range pages {
		all = append(all, p...)
	}
	return Measured(summarizeCoverage(all, s.now()))
}

func (s *NewsAPISource) search(ctx context.Context, query string) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", "100")
	params.Set("apiKey", s.apiKey)

	var resp newsAPIResponse
	if err := s.client.GetJSON(ctx, s.baseURL+"/everything?"+params.Encode(), nil, &resp); err != nil {
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: news search", ErrRateLimited)
		}
		return nil, fmt.Errorf("%w: news search: %v", ErrUpstream, err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("%w: news search: %s: %s", ErrUpstream, resp.Code, resp.Message)
	}

	articles := make([]Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, Article{URL: a.URL, Source: a.Source.Name, PublishedAt: a.PublishedAt})
	}
	return articles, nil
}

// summarizeCoverage de-duplicates articles by URL and derives the coverage metrics.
// Both news backends share it so their scores are comparable.
func summarizeCoverage(articles []Article, now time.Time) models.MediaCoverage {
	cutoff := now.AddDate(0, 0, -30)

	seenURL := make(map[string]bool)
	seenSource := make(map[string]bool)
	sources := []string{}
	var count, recent int

	for _, a := range articles {
		if seenURL[a.URL] {
			continue
		}
		seenURL[a.URL] = true
		count++

		if a.PublishedAt.After(cutoff) {
			recent++
		}
		if !seenSource[a.Source] {
			seenSource[a.Source] = true
			sources = append(sources, a.Source)
		}
	}

	top := sources
	if len(top) > topSourceLimit {
		top = top[:topSourceLimit]
	}

	return models.MediaCoverage{
		ArticleCount:    count,
		RecentMentions:  recent,
		SourceDiversity: len(sources),
		CoverageScore:   coverageScore(count, recent, len(sources)),
		TopSources:      append([]string{}, top...),
	}
}

func coverageScore(count, recent, diversity int) float64 {
	score := 0.3*minf(count, 13.3) + 0.5*minf(recent, 6) + 0.4*minf(diversity, 7.5)
	return round1(clamp(score, 0, 10))
}
